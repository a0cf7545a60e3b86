package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderCreated          = "OrderCreated"
	TypeOrderUpdated          = "OrderUpdated"
	TypeOrderDeleted          = "OrderDeleted"
	TypeResourceStatusChanged = "ResourceStatusChanged"

	CurrentVersion = 1
)

const (
	TopicOrderCreated          = "orders.created"
	TopicOrderUpdated          = "orders.updated"
	TopicOrderDeleted          = "orders.deleted"
	TopicResourceStatusChanged = "resources.status_changed"
)

// Envelope wraps every published payload. Key is the partition/routing key
// (order or resource id) and is not serialised.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`

	Key string `json:"-"`
}

// Topic maps an event type to its Kafka topic / AMQP routing key.
func Topic(eventType string) string {
	switch eventType {
	case TypeOrderCreated:
		return TopicOrderCreated
	case TypeOrderUpdated:
		return TopicOrderUpdated
	case TypeOrderDeleted:
		return TopicOrderDeleted
	case TypeResourceStatusChanged:
		return TopicResourceStatusChanged
	default:
		return ""
	}
}

func (e Envelope) Topic() string {
	return Topic(e.EventType)
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func New(eventType, producer, correlationID, key string, occurredAt time.Time, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  CurrentVersion,
		OccurredAt:    occurredAt.UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
		Key:           key,
	}, nil
}

func Decode[T any](e Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(e.Payload, &t); err != nil {
		return t, fmt.Errorf("decode %s payload: %w", e.EventType, err)
	}
	return t, nil
}
