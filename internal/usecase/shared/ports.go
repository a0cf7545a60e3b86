package shared

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/shared/ports.go -package=sharedmock

import (
	"context"
	"time"

	"shop-order-scheduler/internal/domain/event"
	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/domain/resource"
)

// ChangeSet is everything one command changed. A journal commits it in a
// single transaction.
type ChangeSet struct {
	UpsertOrders    []order.Order
	DeletedOrderIDs []string
	Resources       []resource.Resource
}

func (c ChangeSet) IsEmpty() bool {
	return len(c.UpsertOrders) == 0 && len(c.DeletedOrderIDs) == 0 && len(c.Resources) == 0
}

type JournalState struct {
	Orders    []order.Order
	Resources []resource.Resource
}

type Journal interface {
	Load(ctx context.Context) (JournalState, error)
	SeedResources(ctx context.Context, resources []resource.Resource) error
	Commit(ctx context.Context, changes ChangeSet) error
	Close() error
}

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key         string
	Status      string
	RequestHash string
	OrderID     string
}

type IdempotencyStore interface {
	// Reserve claims key for requestHash. If the key already exists the stored
	// record is returned and reserved is false.
	Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (rec IdempotencyRecord, reserved bool, err error)
	Complete(ctx context.Context, key, orderID string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, env event.Envelope) error
	Close() error
}
