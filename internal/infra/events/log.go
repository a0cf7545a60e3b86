// Package events publishes domain event envelopes to a broker. Publishing is
// best effort: a failure is reported to the caller, never rolled back.
package events

import (
	"context"
	"log/slog"

	"shop-order-scheduler/internal/domain/event"
)

const (
	DriverNone     = "none"
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"

	headerEventType    = "x-event-type"
	headerEventVersion = "x-event-version"
	headerCorrelation  = "x-correlation-id"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, env event.Envelope) error {
	p.logger.DebugContext(ctx, "event emitted",
		slog.String("event_id", env.EventID),
		slog.String("event_type", env.EventType),
		slog.String("topic", env.Topic()),
		slog.String("key", env.Key),
		slog.String("correlation_id", env.CorrelationID))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
