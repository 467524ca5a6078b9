package notify

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers a text notification to a chat/group target. Delivery
// is advisory: callers persist their durable state first and treat errors
// here as log-and-continue.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// TelegramNotifier sends through the Telegram Bot API with a bounded
// request timeout so relay latency stays bounded too.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{api: api}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	// The Bot API client does not take a context; the HTTP client timeout
	// bounds the call instead.
	_, err := n.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
