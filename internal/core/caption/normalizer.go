// Package caption turns release-tool captions into the relay's standard
// bold caption format.
package caption

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultExtension is used when the caption does not end in ".<word>".
const DefaultExtension = ".mp4"

var (
	// Python-style `$`: the extension may be followed by one final newline.
	extensionPattern = regexp.MustCompile(`(\.[\p{L}\p{N}_]+)\n?$`)

	// Encoder noise. Order matters: the later patterns are narrower.
	encoderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\.Bn\.mp4a\.\d+kbps\.`),
		regexp.MustCompile(`(?i)\.mp4a\.\d+kbps\.`),
		regexp.MustCompile(`(?i)\.Bna\.\d+kbps\.`),
	}

	// Platform, source, language and codec tokens.
	tokenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\.(?:JioHotstar|DSNP|SUNNXT|ZEE5)\.`),
		regexp.MustCompile(`(?i)\.WEB-DL\.`),
		regexp.MustCompile(`(?i)\.(?:Bengali|Tamil|Bn)\.`),
		regexp.MustCompile(`(?i)\.AAC\.\d+\.\d+\.`),
		regexp.MustCompile(`(?i)\.x264\.`),
	}

	dotRuns        = regexp.MustCompile(`\.+`)
	// Unicode whitespace, including the \x1c-\x1f separators and NEL that
	// Go's \s leaves out.
	whitespaceRuns = regexp.MustCompile(`[\s\v\x1c-\x1f\x85\p{Z}]+`)

	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Normalizer rewrites captions. It holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	tag string
}

// NewNormalizer creates a normalizer that stamps tag in place of the
// uploader field.
func NewNormalizer(tag string) *Normalizer {
	return &Normalizer{tag: tag}
}

// Tag returns the attribution tag.
func (n *Normalizer) Tag() string {
	return n.tag
}

// Normalize returns the cleaned caption wrapped in <b></b>.
// ok is false when raw is empty; callers must treat that as "no caption".
//
// The result is not idempotent: a second pass replaces the attribution tag
// itself if it ended up as the last dotted token.
func (n *Normalizer) Normalize(raw string) (caption string, ok bool) {
	if raw == "" {
		return "", false
	}

	ext := Extension(raw)

	// Every occurrence of the extension is deleted, not just the suffix.
	// ".Bn.mp4a.128kbps." becomes ".Bna.128kbps." here, which is why the
	// ".Bna." pattern exists.
	text := strings.ReplaceAll(raw, ext, "")

	for _, re := range encoderPatterns {
		text = re.ReplaceAllLiteralString(text, ".")
	}
	for _, re := range tokenPatterns {
		text = re.ReplaceAllLiteralString(text, ".")
	}

	parts := strings.Split(text, ".")
	if last := len(parts) - 1; parts[last] != "" {
		parts[last] = n.tag
	}
	text = strings.Join(parts, ".")

	text = dotRuns.ReplaceAllLiteralString(text, " ")
	text = whitespaceRuns.ReplaceAllLiteralString(text, " ")
	text = strings.TrimFunc(text, isSpace)

	return "<b>" + htmlEscaper.Replace(text+ext) + "</b>", true
}

// isSpace matches the same runes as whitespaceRuns.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Extension returns the trailing ".<word>" token of raw, or DefaultExtension.
func Extension(raw string) string {
	if m := extensionPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return DefaultExtension
}
