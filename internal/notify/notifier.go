package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/sethvargo/go-retry"
)

// Notifier — узкий интерфейс канала уведомлений.
// Доставка best-effort: вызывающая сторона логирует ошибку и продолжает работу.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Telegram отправляет сообщения через Bot API с коротким повтором
type Telegram struct {
	bot *bot.Bot
}

func NewTelegram(token string) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: b}, nil
}

func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Noop — заглушка для окружений без телеграм-токена
type Noop struct{}

func (Noop) Notify(ctx context.Context, chatID int64, text string) error {
	return nil
}
