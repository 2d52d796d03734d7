package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const fallbackName = "用户"

// SendDirect delivers text to a destination chat as-is.
func (b *Bot) SendDirect(destination, text string) error {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("bad destination %q: %w", destination, err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send to %s: %w", destination, err)
	}
	return nil
}

// SendWithMention delivers text to a group chat with the owner's name
// prepended, so the reminder reaches them amid other traffic.
func (b *Bot) SendWithMention(destination, text, owner string) error {
	return b.SendDirect(destination, "@"+b.DisplayName(owner)+"\n"+text)
}

// ReplayAsCommand feeds a reminder's content back through the command
// handlers as if the owner had just typed it. An error is returned when
// no handler recognizes the text, letting the caller fall back to a
// plain notification.
func (b *Bot) ReplayAsCommand(ctx context.Context, owner, destination, text string) error {
	userID, err := strconv.ParseInt(owner, 10, 64)
	if err != nil {
		return fmt.Errorf("bad owner %q: %w", owner, err)
	}
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("bad destination %q: %w", destination, err)
	}
	if !b.handleText(ctx, userID, chatID, text) {
		return fmt.Errorf("no handler consumed %q", text)
	}
	return nil
}

// DisplayName resolves an owner's visible name, falling back to a
// generic form when the chat cannot be fetched.
func (b *Bot) DisplayName(owner string) string {
	id, err := strconv.ParseInt(owner, 10, 64)
	if err != nil {
		return fallbackName
	}
	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: id},
	})
	if err != nil {
		b.log.Debug("get chat", "owner", owner, "error", err)
		return fallbackName
	}
	if chat.FirstName != "" {
		if chat.LastName != "" {
			return chat.FirstName + " " + chat.LastName
		}
		return chat.FirstName
	}
	if chat.UserName != "" {
		return chat.UserName
	}
	return fallbackName
}
