package chat

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramRelay дублирует объявления о новых голосованиях в чат модераторов.
type TelegramRelay struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramRelay(token string, chatID int64) (*TelegramRelay, error) {
	return newTelegramRelay(token, tgbotapi.APIEndpoint, chatID)
}

func newTelegramRelay(token, endpoint string, chatID int64) (*TelegramRelay, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramRelay{bot: bot, chatID: chatID}, nil
}

func (r *TelegramRelay) Notify(_ context.Context, text string) error {
	m := tgbotapi.NewMessage(r.chatID, text)
	m.DisableNotification = true
	m.DisableWebPagePreview = true
	if _, err := r.bot.Send(m); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
