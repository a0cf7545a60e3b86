//go:build unit

package store_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"shop-order-scheduler/internal/domain/order"
	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/pkg/ptr"
	"shop-order-scheduler/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var baseTime = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type OrderStoreSuite struct {
	suite.Suite
	clk   *clock.MockClock
	store *store.OrderStore
}

func TestOrderStoreSuite(t *testing.T) {
	suite.Run(t, new(OrderStoreSuite))
}

func (s *OrderStoreSuite) SetupTest() {
	s.clk = clock.NewMockClock(baseTime)
	s.store = store.NewOrderStore(s.clk, store.PolicyIgnore)
}

func pendingFields(name string) order.Fields {
	return order.Fields{Name: name, Description: "description", Status: order.StatusPending}
}

func (s *OrderStoreSuite) TestAddStampsTimestamps() {
	existing := s.store.Add(pendingFields("Order A"))

	created := s.store.Add(pendingFields("Order B"))

	s.NotEmpty(created.ID)
	s.NotEqual(existing.ID, created.ID)
	s.Equal(created.CreatedAt, created.UpdatedAt)
	s.True(created.CreatedAt.Equal(baseTime))

	got, ok := s.store.GetByID(created.ID)
	s.Require().True(ok)
	s.Equal(created, got)
	s.Len(s.store.List(), 2)
}

func (s *OrderStoreSuite) TestAddRegeneratesClashingID() {
	ids := []string{"dup", "dup", "fresh"}
	i := 0
	st := store.NewOrderStore(s.clk, store.PolicyIgnore, store.WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first := st.Add(pendingFields("First"))
	second := st.Add(pendingFields("Second"))

	s.Equal("dup", first.ID)
	s.Equal("fresh", second.ID)
}

func (s *OrderStoreSuite) TestUpdatePreservesIdentity() {
	created := s.store.Add(pendingFields("Original"))
	s.clk.Add(time.Hour)

	f := created.Fields()
	f.Name = "Renamed"
	updated, ok, err := s.store.Update(created.ID, f)

	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(created.ID, updated.ID)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.True(updated.UpdatedAt.After(created.UpdatedAt))
	s.Equal("Renamed", updated.Name)
	s.Equal(created.Description, updated.Description)
	s.Equal(created.Status, updated.Status)
}

func (s *OrderStoreSuite) TestUpdateClampsBackwardsClock() {
	created := s.store.Add(pendingFields("Order"))
	s.clk.Set(baseTime.Add(-24 * time.Hour))

	updated, _, err := s.store.Update(created.ID, created.Fields())

	s.Require().NoError(err)
	s.Equal(created.CreatedAt, updated.UpdatedAt)
}

func (s *OrderStoreSuite) TestUnknownIDIgnored() {
	s.store.Add(pendingFields("Order"))
	before := s.store.List()

	_, ok, err := s.store.Update("missing", pendingFields("Other"))
	s.NoError(err)
	s.False(ok)

	_, ok, err = s.store.Delete("missing")
	s.NoError(err)
	s.False(ok)

	s.Equal(before, s.store.List())
}

func (s *OrderStoreSuite) TestUnknownIDFails() {
	st := store.NewOrderStore(s.clk, store.PolicyFail)

	_, _, err := st.Update("missing", pendingFields("Other"))
	s.ErrorIs(err, errs.ErrOrderNotFound)

	_, _, err = st.Delete("missing")
	s.ErrorIs(err, errs.ErrOrderNotFound)
}

func (s *OrderStoreSuite) TestDeleteRemovesAndReturnsOrder() {
	a := s.store.Add(pendingFields("Order A"))
	b := s.store.Add(pendingFields("Order B"))
	c := s.store.Add(pendingFields("Order C"))

	removed, ok, err := s.store.Delete(b.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(b.ID, removed.ID)

	list := s.store.List()
	s.Require().Len(list, 2)
	s.Equal(a.ID, list[0].ID)
	s.Equal(c.ID, list[1].ID)

	_, ok = s.store.GetByID(b.ID)
	s.False(ok)
}

func (s *OrderStoreSuite) TestReturnedValuesDoNotAlias() {
	start := baseTime.Add(time.Hour)
	f := pendingFields("Order")
	f.ResourceID = ptr.Of("1")
	f.StartTime = &start
	created := s.store.Add(f)

	*f.ResourceID = "changed by caller"
	*created.StartTime = time.Time{}
	listed := s.store.List()
	*listed[0].ResourceID = "changed via list"

	got, _ := s.store.GetByID(created.ID)
	s.Equal("1", *got.ResourceID)
	s.True(got.StartTime.Equal(start))
}

func (s *OrderStoreSuite) TestSnapshotRestore() {
	kept := s.store.Add(pendingFields("Kept"))
	snap := s.store.Snapshot()

	s.store.Add(pendingFields("Rolled back"))
	_, _, err := s.store.Delete(kept.ID)
	s.Require().NoError(err)

	s.store.Restore(snap)
	list := s.store.List()
	s.Require().Len(list, 1)
	s.Equal(kept.ID, list[0].ID)
}

func (s *OrderStoreSuite) TestReplaceRejectsDuplicates() {
	err := s.store.Replace([]order.Order{{ID: "x"}, {ID: "x"}})
	s.Error(err)

	s.Require().NoError(s.store.Replace([]order.Order{{ID: "x", Name: "Loaded"}}))
	got, ok := s.store.GetByID("x")
	s.True(ok)
	s.Equal("Loaded", got.Name)
}

func TestOrderStoreConcurrentReaders(t *testing.T) {
	st := store.NewOrderStore(clock.NewSteppingClock(baseTime, time.Millisecond), store.PolicyIgnore)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				st.Add(pendingFields(fmt.Sprintf("w%d-%d", w, i)))
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			list := st.List()
			for _, o := range list {
				// every published order is complete
				assert.NotEmpty(t, o.ID)
				assert.False(t, o.CreatedAt.IsZero())
			}
		}
	}()

	wg.Wait()
	<-done

	list := st.List()
	require.Len(t, list, writers*perWriter)
	seen := make(map[string]struct{}, len(list))
	for _, o := range list {
		seen[o.ID] = struct{}{}
	}
	assert.Len(t, seen, writers*perWriter)
}
