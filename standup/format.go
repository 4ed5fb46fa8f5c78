package standup

import (
	"fmt"
	"strings"

	"SupsBrief/utils"
)

const DemoPrefix = "🧪 *[DEMO]* "

func SummaryHeader(date string) string {
	return fmt.Sprintf("📅 *Stand-ups for %s*", utils.FormatDate(date))
}

func NoSubmissionsText(date string) string {
	return SummaryHeader(date) + "\n\n_No stand-ups submitted today._"
}

func UserUpdateText(userID, merged string, late bool) string {
	lateTag := ""
	if late {
		lateTag = " _(late)_"
	}
	return fmt.Sprintf("*%s*%s:\n%s", Mention(userID), lateTag, merged)
}

func WaitingOnText(missing []string) string {
	return "⏰ *Waiting on:* " + MentionList(missing)
}

func Mention(userID string) string {
	return "<@" + userID + ">"
}

func MentionList(userIDs []string) string {
	mentions := make([]string, len(userIDs))
	for i, u := range userIDs {
		mentions[i] = Mention(u)
	}
	return strings.Join(mentions, ", ")
}

// StatusReport renders the channel status for date.
func StatusReport(date string, st *Status, missing []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Stand-up Status - %s*\n", utils.FormatDate(date))

	if onTime := st.OnTime(); len(onTime) > 0 {
		b.WriteString("✅ *Submitted:* " + MentionList(onTime) + "\n")
	}
	if len(st.Late) > 0 {
		b.WriteString("🕐 *Submitted Late:* " + MentionList(st.Late) + "\n")
	}
	if len(missing) > 0 {
		b.WriteString("❌ *Missing:* " + MentionList(missing) + "\n")
	}

	total := len(st.Submitted) + len(missing)
	if total == 0 {
		b.WriteString("_No stand-ups submitted yet today._")
		return b.String()
	}
	fmt.Fprintf(&b, "%d/%d submitted", len(st.Submitted), total)
	return b.String()
}
