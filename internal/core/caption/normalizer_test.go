package caption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTag = "@SBRipssbot"

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(testTag)

	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "zee5 release",
			raw:  "Show.Name.S01E01.ZEE5.WEB-DL.Bengali.AAC.2.0.x264.Bn.mp4a.128kbps.OldUploader.mp4",
			want: "<b>Show Name S01E01 @SBRipssbot.mp4</b>",
		},
		{
			name: "no extension",
			raw:  "RandomText",
			want: "<b>@SBRipssbot.mp4</b>",
		},
		{
			name: "extension only",
			raw:  ".mp4",
			want: "<b>.mp4</b>",
		},
		{
			name: "mkv with platform and language",
			raw:  "Movie.2024.Tamil.DSNP.Uploader.mkv",
			want: "<b>Movie 2024 @SBRipssbot.mkv</b>",
		},
		{
			name: "case insensitive tokens",
			raw:  "Show.web-dl.zee5.Someone.mp4",
			want: "<b>Show @SBRipssbot.mp4</b>",
		},
		{
			name: "jiohotstar with mp4a noise",
			raw:  "Serial.E10.JioHotstar.mp4a.96kbps.Rip.mkv",
			want: "<b>Serial E10 @SBRipssbot.mkv</b>",
		},
		{
			name: "extension substring is deleted everywhere",
			raw:  "Serial.E10.JioHotstar.mp4a.96kbps.Rip.mp4",
			want: "<b>Serial E10 JioHotstara 96kbps @SBRipssbot.mp4</b>",
		},
		{
			name: "trailing dot keeps last token",
			raw:  "Name.",
			want: "<b>Name.mp4</b>",
		},
		{
			name: "adjacent language tokens only strip the first",
			raw:  "A.Bengali.Tamil.X.mp4",
			want: "<b>A Tamil @SBRipssbot.mp4</b>",
		},
		{
			name: "whitespace collapses",
			raw:  "  Some   Show..Part 2.Up.mp4",
			want: "<b>Some Show Part 2 @SBRipssbot.mp4</b>",
		},
		{
			name: "information separators count as whitespace",
			raw:  "A\x1cB\x1d\x1eC.Up.mp4",
			want: "<b>A B C @SBRipssbot.mp4</b>",
		},
		{
			name: "separators and nel are trimmed",
			raw:  "\x1f\u0085Show\u2028.Up.mp4",
			want: "<b>Show @SBRipssbot.mp4</b>",
		},
		{
			name: "html is escaped inside the bold tag",
			raw:  "Tom & Jerry <Remastered>.Uploader.mp4",
			want: "<b>Tom &amp; Jerry &lt;Remastered&gt; @SBRipssbot.mp4</b>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := n.Normalize(tc.raw)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizer_AbsentCaption(t *testing.T) {
	n := NewNormalizer(testTag)

	got, ok := n.Normalize("")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestNormalizer_KeepsRecognizedExtension(t *testing.T) {
	n := NewNormalizer(testTag)

	for _, raw := range []string{
		"Film.Part.One.Group.mkv",
		"clip.Uploader.webm",
		"A.B.C.avi",
		"x.mov",
	} {
		got, ok := n.Normalize(raw)
		require.True(t, ok, raw)

		ext := Extension(raw)
		assert.True(t, strings.HasPrefix(got, "<b>"), got)
		assert.True(t, strings.HasSuffix(got, ext+"</b>"), got)
	}
}

func TestNormalizer_DefaultsToMP4(t *testing.T) {
	n := NewNormalizer(testTag)

	for _, raw := range []string{"Plain caption", "Ends with dot.", "dash-ext.-", "No.Ext!"} {
		got, ok := n.Normalize(raw)
		require.True(t, ok, raw)
		assert.True(t, strings.HasSuffix(got, ".mp4</b>"), got)
	}
}

func TestNormalizer_SecondPassDoesNotPanic(t *testing.T) {
	n := NewNormalizer(testTag)

	first, ok := n.Normalize("Show.Name.S01E01.ZEE5.Uploader.mp4")
	require.True(t, ok)

	assert.NotPanics(t, func() {
		second, ok := n.Normalize(first)
		assert.True(t, ok)
		assert.NotEmpty(t, second)
	})
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".mkv", Extension("a.b.mkv"))
	assert.Equal(t, ".mp4", Extension("a.b.mkv "))
	assert.Equal(t, ".mp4", Extension("no extension"))
	assert.Equal(t, ".mkv", Extension("video.mkv\n"))
}

func TestIsSpace_MatchesWhitespaceRuns(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f, 0x85, 0xa0, 0x2028, 0x2029, 0x3000} {
		assert.True(t, isSpace(r), "%U", r)
		assert.True(t, whitespaceRuns.MatchString(string(r)), "%U", r)
	}
	for _, r := range []rune{'a', '.', '_', 0x1b, 0x200b} {
		assert.False(t, isSpace(r), "%U", r)
		assert.False(t, whitespaceRuns.MatchString(string(r)), "%U", r)
	}
}
