// Package bot implements the Telegram command surface and the Notifier
// used by the dispatch loop.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"remind_bot/internal/config"
	"remind_bot/internal/reminder"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Command words. These are plain text prefixes, not slash commands,
// matching the 记录/我的记录/删除 convention the bot's users know.
const (
	cmdStore  = "记录"
	cmdQuery  = "我的记录"
	cmdDelete = "删除"
	cmdHelp   = "记录帮助"
)

// Bot handles user commands and sends reminder notifications.
type Bot struct {
	api telegramAPI
	svc *reminder.Service
	cfg *config.Config
	log *slog.Logger
}

// New creates a Bot with the given Telegram token, service, and config.
func New(token string, svc *reminder.Service, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Bot{api: api, svc: svc, cfg: cfg, log: log}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if !b.cfg.IsUserAllowed(update.Message.From.ID) {
				b.reply(update.Message.Chat.ID, update.Message.From.ID, "无权使用此功能")
				continue
			}
			b.handleText(ctx, update.Message.From.ID, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

// handleText dispatches one inbound text message. It reports whether a
// command consumed the text; unrecognized text is left for other bots
// or ignored.
func (b *Bot) handleText(ctx context.Context, userID, chatID int64, text string) bool {
	text = strings.TrimSpace(text)

	b.log.Debug("text", "chat_id", chatID, "user_id", userID, "text", text)

	switch {
	case text == cmdStore || text == cmdHelp:
		b.handleHelp(chatID, userID)
	case strings.HasPrefix(text, cmdStore):
		b.handleCreate(ctx, userID, chatID, strings.TrimSpace(strings.TrimPrefix(text, cmdStore)))
	case text == cmdQuery:
		b.handleList(ctx, userID, chatID)
	case strings.HasPrefix(text, cmdDelete):
		b.handleDelete(ctx, userID, chatID, strings.TrimSpace(strings.TrimPrefix(text, cmdDelete)))
	default:
		return false
	}
	return true
}

// reply sends text to a chat, mentioning the user when the chat is not
// their private chat.
func (b *Bot) reply(chatID, userID int64, text string) {
	if chatID != userID {
		text = "@" + b.DisplayName(strconv.FormatInt(userID, 10)) + "\n" + text
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}
