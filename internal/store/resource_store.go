package store

import (
	"slices"
	"sync"
	"sync/atomic"

	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/pkg/errs"
)

// ResourceStore owns the resource collection. The slice behind items is never
// modified after it is published; writers build a new one under mu.
type ResourceStore struct {
	mu     sync.Mutex
	items  atomic.Pointer[[]resource.Resource]
	policy UnknownIDPolicy
}

type ResourceSnapshot struct {
	items *[]resource.Resource
}

func NewResourceStore(seed []resource.Resource, policy UnknownIDPolicy) (*ResourceStore, error) {
	s := &ResourceStore{policy: policy}
	if err := s.Replace(seed); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ResourceStore) load() []resource.Resource {
	if p := s.items.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *ResourceStore) List() []resource.Resource {
	return slices.Clone(s.load())
}

func (s *ResourceStore) GetByID(id string) (resource.Resource, bool) {
	for _, r := range s.load() {
		if r.ID == id {
			return r, true
		}
	}
	return resource.Resource{}, false
}

// SetStatus overwrites the status of one resource, keeping every other field
// and the collection order.
func (s *ResourceStore) SetStatus(id string, status resource.Status) error {
	if !status.IsValid() {
		return resource.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	idx := slices.IndexFunc(current, func(r resource.Resource) bool { return r.ID == id })
	if idx < 0 {
		return s.policy.miss(errs.ErrResourceNotFound)
	}

	next := slices.Clone(current)
	next[idx] = next[idx].WithStatus(status)
	s.items.Store(&next)
	return nil
}

// Replace swaps in a whole new collection, rejecting duplicate ids.
func (s *ResourceStore) Replace(items []resource.Resource) error {
	seen := make(map[string]struct{}, len(items))
	for _, r := range items {
		if _, dup := seen[r.ID]; dup {
			return errs.Wrapf(resource.ErrDuplicateResourceID, "resource %s", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	next := slices.Clone(items)
	s.mu.Lock()
	s.items.Store(&next)
	s.mu.Unlock()
	return nil
}

func (s *ResourceStore) Snapshot() ResourceSnapshot {
	return ResourceSnapshot{items: s.items.Load()}
}

func (s *ResourceStore) Restore(snap ResourceSnapshot) {
	s.mu.Lock()
	s.items.Store(snap.items)
	s.mu.Unlock()
}
