package messages

import (
	"fmt"
	"html"
)

// All texts are HTML. Anything that comes from outside (errors, ids) is
// escaped before it is interpolated.

const welcome = "🎬 <b>Video Caption Relay</b>\n\n" +
	"I rewrite the caption of your videos and send them straight back.\n\n" +
	"<b>How to use:</b>\n" +
	"1️⃣ Send me a video with its caption in a private chat\n" +
	"2️⃣ Or post/forward a video in the working group\n" +
	"3️⃣ I send the same video back with a clean, bold caption\n\n" +
	"📝 <b>Note:</b> nothing is downloaded or uploaded, only the caption changes.\n\n" +
	"✅ You are an authorized user!\n\n" +
	"🎯 <b>Features:</b>\n" +
	"• Several videos at once are processed one by one, in order\n" +
	"• Captions are made bold automatically\n" +
	"• ZEE5, JioHotstar, SUNNXT and DSNP release names are cleaned up\n" +
	"• Works in the private working group too\n" +
	"• Forwarded videos are handled as well\n\n" +
	"<b>Commands:</b>\n" +
	"/test - check access to the working group"

func Welcome() string { return welcome }

func Unauthorized(userID int64) string {
	return fmt.Sprintf("❌ You are not authorized to use this bot.\n\nYour User ID: <code>%d</code>", userID)
}

func Guidance() string {
	return "⚠️ Send me a video with a caption.\nNo other messages are needed."
}

func MissingCaption() string {
	return "⚠️ This video has no caption! Send the video with its caption."
}

func Processing() string { return "⏳ Modifying caption..." }

func Completed() string { return "✅ Caption successfully modified!" }

func Failed(err error) string {
	return "❌ Error: <code>" + html.EscapeString(err.Error()) + "</code>"
}

func Queued(position int) string {
	return fmt.Sprintf("📥 Queued, %d ahead of this video.", position-1)
}

func RateLimited() string {
	return "🐢 You are sending videos too fast. Please wait a moment and try again."
}

func ShuttingDown() string {
	return "🔧 The bot is restarting. Please send this video again in a minute."
}

func NoWorkingGroup() string {
	return "ℹ️ No working group is configured (WORKING_GROUP_ID)."
}

func TestProbe() string {
	return "🧪 <b>Bot Test Message</b>\n\n✅ The bot can access this group and post messages!"
}

func TestSucceeded(groupID int64, probeMessageID int) string {
	return "✅ <b>Group Access Test Successful!</b>\n\n" +
		fmt.Sprintf("👥 Group ID: <code>%d</code>\n", groupID) +
		fmt.Sprintf("📨 Test Message ID: <code>%d</code>\n", probeMessageID) +
		"✅ Bot successfully posted to the group!\n\n" +
		"Now post or forward a video in the group to check that it works."
}

func TestFailed(groupID int64, err error) string {
	return "❌ <b>Group Access Test Failed!</b>\n\n" +
		fmt.Sprintf("👥 Group ID: <code>%d</code>\n", groupID) +
		"❌ Error: <code>" + html.EscapeString(err.Error()) + "</code>\n\n" +
		"<b>Possible issues:</b>\n" +
		"1. The bot is not a member of the group\n" +
		"2. The bot is not an admin\n" +
		"3. The group ID is wrong\n" +
		"4. The bot's Privacy Mode is still on\n\n" +
		"<b>Solution:</b>\n" +
		"• Make the bot an admin of the group\n" +
		"• Turn Privacy Mode off with @BotFather\n" +
		"• Double-check the group ID"
}
