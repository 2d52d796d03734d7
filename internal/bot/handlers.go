package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"remind_bot/internal/reminder"
	"remind_bot/internal/rule"
)

func (b *Bot) handleHelp(chatID, userID int64) {
	b.reply(chatID, userID, `⏰设置提醒:
 记录 [时间/周期] [内容]

🕒支持的时间格式:
 - 今天 HH:MM (如: 今天 18:30)
 - 明天 HH:MM (如: 明天 9:00)
 - 后天 HH:MM (如: 后天 20:15)
 - XX分钟后 / XX小时后 / XX天后
 - HH:MM (每天该时刻)

📅支持的周期格式:
 - 每天 HH:MM (如: 每天 8:00)
 - 每周一/每周二/.../每周日 HH:MM
 - 每月 DD号 HH:MM (如: 每月 8号 8:00)
 - 每年 MM月DD日 HH:MM (如: 每年 3月15日 9:00)
 - 每周 (每7天)
 - 每小时

🔄联动功能:
 - 以"提醒"开头的内容将作为简单提醒发送
 - 其他内容将作为指令重新发送，可触发其他功能

📋管理提醒:
 - 我的记录 (查看所有提醒)
 - 删除 序号 (取消单个提醒)
 - 删除 全部 (取消所有提醒)
 - 记录帮助 (查看本帮助)`)
}

func (b *Bot) handleCreate(ctx context.Context, userID, chatID int64, args string) {
	owner := strconv.FormatInt(userID, 10)
	destination := strconv.FormatInt(chatID, 10)

	expr, content, err := SplitArgs(args, b.svc.Now())
	if err != nil {
		b.reply(chatID, userID, createErrorText(err))
		return
	}

	res, err := b.svc.Create(ctx, owner, destination, expr, content)
	if err != nil {
		b.reply(chatID, userID, createErrorText(err))
		return
	}

	entries, err := b.svc.List(ctx, owner)
	if err != nil {
		b.log.Error("list after create", "owner", owner, "error", err)
		entries = nil
	}
	b.reply(chatID, userID, FormatCreateSuccess(res.ID, content, res.Next, entries))
}

func createErrorText(err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "参数错误！请使用：记录 [时间/周期] [内容]"
	case errors.Is(err, rule.ErrPastTime):
		return "指定的时间已经过去，请重新设置"
	case errors.Is(err, rule.ErrBadTime):
		return "时间格式错误！请检查时间部分，例如：今天 18:30"
	case errors.Is(err, rule.ErrUnsupported):
		return "不支持的时间/周期格式"
	default:
		return "存储备忘录失败，请稍后再试"
	}
}

func (b *Bot) handleList(ctx context.Context, userID, chatID int64) {
	owner := strconv.FormatInt(userID, 10)

	entries, err := b.svc.List(ctx, owner)
	if err != nil {
		b.log.Error("list reminders", "owner", owner, "error", err)
		b.reply(chatID, userID, "查询记录失败，请稍后再试")
		return
	}
	if len(entries) == 0 {
		b.reply(chatID, userID, "您还没有任何记录😔")
		return
	}
	b.reply(chatID, userID, FormatReminderList(entries))
}

func (b *Bot) handleDelete(ctx context.Context, userID, chatID int64, arg string) {
	owner := strconv.FormatInt(userID, 10)

	if arg == "" {
		b.reply(chatID, userID, "参数错误！请使用：\n删除 <记录ID> 或\n删除 全部")
		return
	}

	all, id, err := ParseDeleteArg(arg)
	if err != nil {
		b.reply(chatID, userID, "参数错误！请使用：\n删除 <记录ID> 或\n删除 全部")
		return
	}

	if all {
		b.confirmDeleteAll(chatID, userID)
		return
	}

	switch err := b.svc.Delete(ctx, owner, id); {
	case err == nil:
		b.reply(chatID, userID, fmt.Sprintf("🗑️成功删除记录 %d", id))
	case errors.Is(err, reminder.ErrNotFound):
		b.reply(chatID, userID, fmt.Sprintf("❌未找到记录 %d", id))
	default:
		b.log.Error("delete reminder", "owner", owner, "reminder_id", id, "error", err)
		b.reply(chatID, userID, fmt.Sprintf("❌删除记录 %d 失败，请稍后再试", id))
	}
}

// confirmDeleteAll asks for confirmation before clearing the owner's
// records.
func (b *Bot) confirmDeleteAll(chatID, userID int64) {
	msg := tgbotapi.NewMessage(chatID, "确定要清空所有记录吗？此操作无法撤销。")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("确认清空", fmt.Sprintf("delall:%d", userID)),
			tgbotapi.NewInlineKeyboardButtonData("取消", "noop:0"),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send delete confirmation", "error", err)
	}
}
