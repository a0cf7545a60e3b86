package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"shop-order-scheduler/internal/domain/event"

	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each envelope to its event topic, keyed so all events
// for one order land on the same partition.
type KafkaPublisher struct {
	w      messageWriter
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, logger *slog.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, logger)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, logger: logger}
}

func kafkaMessage(env event.Envelope) (kafka.Message, error) {
	body, err := env.Marshal()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return kafka.Message{
		Topic: env.Topic(),
		Key:   []byte(env.Key),
		Value: body,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(env.EventType)},
			{Key: headerEventVersion, Value: []byte(strconv.Itoa(env.EventVersion))},
			{Key: headerCorrelation, Value: []byte(env.CorrelationID)},
		},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, env event.Envelope) error {
	msg, err := kafkaMessage(env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s to kafka: %w", env.EventType, err)
	}
	p.logger.DebugContext(ctx, "event published",
		slog.String("broker", DriverKafka),
		slog.String("topic", msg.Topic),
		slog.String("event_id", env.EventID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
