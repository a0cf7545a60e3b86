package idempotency

import (
	"context"
	"sync"
	"time"

	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/usecase/shared"
)

type memoryEntry struct {
	record    shared.IdempotencyRecord
	expiresAt time.Time
}

// MemoryStore keeps records in process. Expired entries are dropped lazily.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Reserve(_ context.Context, key, requestHash string, ttl time.Duration) (shared.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return e.record, false, nil
	}

	rec := shared.IdempotencyRecord{
		Key:         key,
		Status:      shared.IdempotencyProcessing,
		RequestHash: requestHash,
	}
	s.entries[key] = memoryEntry{record: rec, expiresAt: now.Add(ttl)}
	return rec, true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key, orderID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return ErrKeyNotReserved
	}
	e.record.Status = shared.IdempotencyCompleted
	e.record.OrderID = orderID
	e.expiresAt = s.clock.Now().Add(ttl)
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
