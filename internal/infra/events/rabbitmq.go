package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"shop-order-scheduler/internal/domain/event"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends envelopes to a durable topic exchange using the event
// topic as routing key.
type RabbitPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publishes
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	logger   *slog.Logger
}

func NewRabbitPublisher(url, exchange string, logger *slog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newRabbitPublisher(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string, logger *slog.Logger) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &RabbitPublisher{ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, env event.Envelope) error {
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, env.Topic(), false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     env.EventID,
		CorrelationId: env.CorrelationID,
		Timestamp:     env.OccurredAt,
		Type:          env.EventType,
		AppId:         env.Producer,
		Headers: amqp.Table{
			headerEventType:    env.EventType,
			headerEventVersion: int32(env.EventVersion),
		},
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", env.EventType, err)
	}
	p.logger.DebugContext(ctx, "event published",
		slog.String("broker", DriverRabbitMQ),
		slog.String("routing_key", env.Topic()),
		slog.String("event_id", env.EventID))
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
