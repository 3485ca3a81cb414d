// setup.go
package rabbit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"
)

// Dial opens the connection shared by the relay's publisher and consumer.
func Dial(url string) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp091.Dial: %w", err)
	}
	return conn, nil
}

// DeclareExchange makes sure the fanout exchange used by the relay exists.
func DeclareExchange(ch *amqp091.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// SetupConsumers binds a server-named exclusive queue to the exchange so
// every instance gets its own copy of each event, then feeds the deliveries
// to the consumer until ctx is done or the channel closes.
func SetupConsumers(ctx context.Context, ch *amqp091.Channel, exchange string, consumer *EventConsumer, log *slog.Logger) error {
	if err := DeclareExchange(ch, exchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", q.Name, err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}

	go consumer.Run(ctx, msgs)

	log.Info("subscribed to event exchange", "exchange", exchange, "queue", q.Name)
	return nil
}
