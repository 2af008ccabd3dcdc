package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pantau-dev/pantau/internal/config"
)

// BotAPI is the part of tgbotapi.BotAPI the sender uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts digests to a chat.
type TelegramSender struct {
	api    BotAPI
	chatID int64
}

// NewTelegramSender creates a sender over an existing bot client.
func NewTelegramSender(api BotAPI, chatID int64) *TelegramSender {
	return &TelegramSender{api: api, chatID: chatID}
}

// DialTelegram logs in with the configured token. It returns nil, nil when
// Telegram is disabled.
func DialTelegram(cfg config.TelegramConfig) (*TelegramSender, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	return NewTelegramSender(api, cfg.ChatID), nil
}

// Name identifies the sender in logs.
func (s *TelegramSender) Name() string { return "telegram" }

// Send posts the digest as an HTML message built from the plain text body.
func (s *TelegramSender) Send(ctx context.Context, msg *RenderedMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := tgbotapi.NewMessage(s.chatID, FormatTelegram(msg))
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true
	if _, err := s.api.Send(m); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

// FormatTelegram bolds the subject line and escapes the rest.
func FormatTelegram(msg *RenderedMessage) string {
	body := msg.Text
	if first, rest, ok := strings.Cut(body, "\n"); ok && first == msg.Subject {
		body = strings.TrimLeft(strings.TrimPrefix(rest, strings.Repeat("=", 40)), "\n")
	}
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(msg.Subject))
	b.WriteString("</b>\n\n")
	b.WriteString(html.EscapeString(strings.TrimRight(body, "\n")))
	return b.String()
}
