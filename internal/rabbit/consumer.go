package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"quickeats-order-service/internal/realtime"

	"github.com/rabbitmq/amqp091-go"
)

// Broadcaster hands an event to local websocket subscribers.
type Broadcaster interface {
	Broadcast(e realtime.Event) error
}

type EventConsumer struct {
	hub Broadcaster
	log *slog.Logger
}

func NewEventConsumer(hub Broadcaster, log *slog.Logger) *EventConsumer {
	return &EventConsumer{hub: hub, log: log.With("component", "rabbit_consumer")}
}

func (c *EventConsumer) Handle(body []byte) error {
	var e realtime.Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if e.Event == "" || e.Channel == "" {
		return errors.New("event without name or channel")
	}
	return c.hub.Broadcast(e)
}

// Run consumes until ctx is done or the delivery channel closes.
func (c *EventConsumer) Run(ctx context.Context, msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.Handle(m.Body); err != nil {
				c.log.Warn("event dropped", "error", err, "message_id", m.MessageId)
			}
		}
	}
}
