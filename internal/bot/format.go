package bot

import (
	"fmt"
	"strings"
	"time"

	"remind_bot/internal/reminder"
)

const listTimeLayout = "2006-01-02 15:04"

// FormatNextTime renders a computed next occurrence, or 未知 for
// reminders whose stored literal no longer parses.
func FormatNextTime(t time.Time) string {
	if t.IsZero() {
		return "未知"
	}
	return t.Format(listTimeLayout)
}

// FormatReminderList formats an owner's reminders for display.
func FormatReminderList(entries []reminder.Entry) string {
	var b strings.Builder
	b.WriteString("📝您的记录：\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "👉 %d. %s (提醒时间：%s)\n", e.ID, e.Content, FormatNextTime(e.Next))
	}
	return b.String()
}

// FormatCreateSuccess formats the reply to a successful 记录 command,
// echoing the stored reminder and the owner's current list.
func FormatCreateSuccess(id int64, content string, next time.Time, entries []reminder.Entry) string {
	var b strings.Builder
	b.WriteString("🎉成功存储备忘录\n")
	fmt.Fprintf(&b, "🆔任务ID：%d\n", id)
	fmt.Fprintf(&b, "🗒️内 容：%s\n", content)
	fmt.Fprintf(&b, "⏱️提醒时间：%s\n", FormatNextTime(next))
	b.WriteString("——————————————————\n")
	if len(entries) == 0 {
		b.WriteString("目前您还没有其他记录哦😉")
		return b.String()
	}
	b.WriteString("📝您当前的记录如下：\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "👉 %d. %s (提醒时间：%s)\n", e.ID, e.Content, FormatNextTime(e.Next))
	}
	return b.String()
}
