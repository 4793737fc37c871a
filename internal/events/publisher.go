package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subsense/internal/models"
)

// Ключи маршрутизации событий.
const (
	RoutingKeyCreated     = "subscription.created"
	RoutingKeyDeactivated = "subscription.deactivated"
)

// SubscriptionEvent - тело сообщения о событии подписки.
type SubscriptionEvent struct {
	Type         string              `json:"type"`
	OccurredAt   time.Time           `json:"occurredAt"`
	Subscription models.Subscription `json:"subscription"`
}

// Channel - часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует события в exchange.
type Publisher struct {
	ch       Channel
	exchange string
	now      func() time.Time
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}
}

// SubscriptionCreated публикует событие о созданной подписке.
func (p *Publisher) SubscriptionCreated(ctx context.Context, sub models.Subscription) error {
	return p.publish(ctx, RoutingKeyCreated, sub)
}

// SubscriptionDeactivated публикует событие о деактивации подписки.
func (p *Publisher) SubscriptionDeactivated(ctx context.Context, sub models.Subscription) error {
	return p.publish(ctx, RoutingKeyDeactivated, sub)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, sub models.Subscription) error {
	const op = "events.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	body, err := json.Marshal(SubscriptionEvent{
		Type:         routingKey,
		OccurredAt:   p.now().UTC(),
		Subscription: sub,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NopPublisher используется, когда RabbitMQ не настроен.
type NopPublisher struct{}

// SubscriptionCreated ничего не делает.
func (NopPublisher) SubscriptionCreated(context.Context, models.Subscription) error { return nil }

// SubscriptionDeactivated ничего не делает.
func (NopPublisher) SubscriptionDeactivated(context.Context, models.Subscription) error { return nil }
