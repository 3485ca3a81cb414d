package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"quickeats-order-service/internal/realtime"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp091.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher sends realtime events to the fanout exchange instead of the
// local hub, so subscribers on every instance receive them.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

func (p *Publisher) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}

	body, err := json.Marshal(realtime.Event{Event: event, Channel: channel, Data: data})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := amqp091.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Type:        event,
		Body:        body,
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event, p.exchange, err)
	}
	return nil
}
