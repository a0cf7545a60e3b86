package store

import (
	"slices"
	"sync"
	"sync/atomic"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/pkg/errs"

	"shop-order-scheduler/internal/pkg/ptr"

	"github.com/google/uuid"
)

// OrderStore owns the order collection with the same copy-on-write scheme as
// ResourceStore. Orders carry pointer fields, so values entering and leaving
// the store are deep copies.
type OrderStore struct {
	mu     sync.Mutex
	items  atomic.Pointer[[]order.Order]
	clock  clock.Clock
	policy UnknownIDPolicy
	newID  func() string
}

type OrderSnapshot struct {
	items *[]order.Order
}

type OrderStoreOption func(*OrderStore)

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(fn func() string) OrderStoreOption {
	return func(s *OrderStore) { s.newID = fn }
}

func NewOrderStore(clk clock.Clock, policy UnknownIDPolicy, opts ...OrderStoreOption) *OrderStore {
	s := &OrderStore{
		clock:  clk,
		policy: policy,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := []order.Order{}
	s.items.Store(&empty)
	return s
}

func (s *OrderStore) load() []order.Order {
	if p := s.items.Load(); p != nil {
		return *p
	}
	return nil
}

func deepCopy(o order.Order) order.Order {
	o.ResourceID = ptr.Clone(o.ResourceID)
	o.StartTime = ptr.Clone(o.StartTime)
	o.EndTime = ptr.Clone(o.EndTime)
	return o
}

func (s *OrderStore) List() []order.Order {
	current := s.load()
	out := make([]order.Order, len(current))
	for i, o := range current {
		out[i] = deepCopy(o)
	}
	return out
}

func (s *OrderStore) GetByID(id string) (order.Order, bool) {
	for _, o := range s.load() {
		if o.ID == id {
			return deepCopy(o), true
		}
	}
	return order.Order{}, false
}

// Add appends a new order built from already validated fields and returns it.
func (s *OrderStore) Add(f order.Fields) order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	id := s.newID()
	for slices.ContainsFunc(current, func(o order.Order) bool { return o.ID == id }) {
		id = s.newID()
	}

	now := s.clock.Now()
	created := fromFields(f)
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	next := make([]order.Order, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, created)
	s.items.Store(&next)

	return deepCopy(created)
}

// Update replaces the mutable fields of an existing order. ID and CreatedAt
// never change; UpdatedAt is refreshed and never precedes CreatedAt. The
// boolean is false when the id is unknown and the policy ignores misses.
func (s *OrderStore) Update(id string, f order.Fields) (order.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	idx := slices.IndexFunc(current, func(o order.Order) bool { return o.ID == id })
	if idx < 0 {
		return order.Order{}, false, s.policy.miss(errs.ErrOrderNotFound)
	}

	existing := current[idx]
	updated := fromFields(f)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.clock.Now()
	if updated.UpdatedAt.Before(existing.CreatedAt) {
		updated.UpdatedAt = existing.CreatedAt
	}

	next := slices.Clone(current)
	next[idx] = updated
	s.items.Store(&next)

	return deepCopy(updated), true, nil
}

// Delete removes an order and returns what was removed.
func (s *OrderStore) Delete(id string) (order.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	idx := slices.IndexFunc(current, func(o order.Order) bool { return o.ID == id })
	if idx < 0 {
		return order.Order{}, false, s.policy.miss(errs.ErrOrderNotFound)
	}

	removed := current[idx]
	next := make([]order.Order, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	s.items.Store(&next)

	return deepCopy(removed), true, nil
}

// Replace swaps in a whole collection, used when loading from the journal.
func (s *OrderStore) Replace(items []order.Order) error {
	seen := make(map[string]struct{}, len(items))
	next := make([]order.Order, 0, len(items))
	for _, o := range items {
		if _, dup := seen[o.ID]; dup {
			return errs.Newf("duplicate order id %s", o.ID)
		}
		seen[o.ID] = struct{}{}
		next = append(next, deepCopy(o))
	}

	s.mu.Lock()
	s.items.Store(&next)
	s.mu.Unlock()
	return nil
}

func (s *OrderStore) Snapshot() OrderSnapshot {
	return OrderSnapshot{items: s.items.Load()}
}

func (s *OrderStore) Restore(snap OrderSnapshot) {
	s.mu.Lock()
	s.items.Store(snap.items)
	s.mu.Unlock()
}

func fromFields(f order.Fields) order.Order {
	return order.Order{
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		ResourceID:  ptr.Clone(f.ResourceID),
		StartTime:   ptr.Clone(f.StartTime),
		EndTime:     ptr.Clone(f.EndTime),
	}
}
