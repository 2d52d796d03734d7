package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"remind_bot/internal/reminder"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return
	}

	action := parts[0]
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}

	b.log.Info("callback",
		"action", action,
		"id", id,
		"chat_id", chatID,
		"user_id", cb.From.ID,
	)

	switch action {
	case "delall":
		// Only the user who asked may confirm their own wipe.
		if id != cb.From.ID {
			return
		}
		b.deleteAll(ctx, cb.From.ID, chatID)
	case "noop":
	}
}

func (b *Bot) deleteAll(ctx context.Context, userID, chatID int64) {
	owner := strconv.FormatInt(userID, 10)
	switch err := b.svc.DeleteAll(ctx, owner); {
	case err == nil:
		b.reply(chatID, userID, "🗑️已清空所有记录")
	case errors.Is(err, reminder.ErrNotFound):
		b.reply(chatID, userID, "您还没有任何记录😔")
	default:
		b.log.Error("delete all reminders", "owner", owner, "error", err)
		b.reply(chatID, userID, "❌清空记录失败，请稍后再试")
	}
}
