package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher отправляет доменные события в RabbitMQ после COMMIT бизнес-транзакции.
// Доставка строго best-effort: ошибка публикации логируется и никогда не
// поднимается к вызывающей стороне — событие не может откатить бронь или возврат.
// Nil-значение Publisher безопасно (публикация отключена конфигурацией).
type Publisher struct {
	url    string
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// Publish сериализует событие в JSON и кладёт его в durable-очередь
func (p *Publisher) Publish(ctx context.Context, queue string, event any) {
	if p == nil {
		return
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("events: dial failed", zap.String("queue", queue), zap.Error(err))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("events: channel open failed", zap.String("queue", queue), zap.Error(err))
		return
	}
	defer ch.Close()

	// Объявление идемпотентно; durable — события переживают рестарт брокера
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.logger.Warn("events: queue declare failed", zap.String("queue", queue), zap.Error(err))
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("events: marshal failed", zap.String("queue", queue), zap.Error(err))
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.logger.Warn("events: publish failed", zap.String("queue", queue), zap.Error(err))
		return
	}

	p.logger.Debug("event published", zap.String("queue", queue))
}
