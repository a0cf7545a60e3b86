//go:build unit

package store_test

import (
	"testing"

	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResourceStore(t *testing.T, policy store.UnknownIDPolicy) *store.ResourceStore {
	t.Helper()
	s, err := store.NewResourceStore(resource.DefaultSeed(), policy)
	require.NoError(t, err)
	return s
}

func TestResourceStoreGetByID(t *testing.T) {
	s := newResourceStore(t, store.PolicyIgnore)

	r, ok := s.GetByID("4")
	require.True(t, ok)
	assert.Equal(t, "Quality Control Station", r.Name)

	_, ok = s.GetByID("99")
	assert.False(t, ok)
}

func TestResourceStoreSetStatus(t *testing.T) {
	s := newResourceStore(t, store.PolicyIgnore)
	before := s.List()

	require.NoError(t, s.SetStatus("2", resource.StatusBusy))

	after := s.List()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID, "order preserved")
		assert.Equal(t, before[i].Name, after[i].Name, "name preserved")
	}
	assert.Equal(t, resource.StatusBusy, after[1].Status)
	assert.Equal(t, resource.StatusAvailable, before[1].Status, "earlier List result is not affected")

	require.NoError(t, s.SetStatus("2", resource.StatusBusy), "overwrite is unconditional")
	assert.ErrorIs(t, s.SetStatus("2", resource.Status("Offline")), resource.ErrInvalidStatus)
}

func TestResourceStoreUnknownID(t *testing.T) {
	t.Run("ignore", func(t *testing.T) {
		s := newResourceStore(t, store.PolicyIgnore)
		before := s.List()
		assert.NoError(t, s.SetStatus("missing", resource.StatusBusy))
		assert.Equal(t, before, s.List())
	})

	t.Run("fail", func(t *testing.T) {
		s := newResourceStore(t, store.PolicyFail)
		err := s.SetStatus("missing", resource.StatusBusy)
		assert.ErrorIs(t, err, errs.ErrResourceNotFound)
	})
}

func TestResourceStoreSnapshotRestore(t *testing.T) {
	s := newResourceStore(t, store.PolicyIgnore)
	snap := s.Snapshot()

	require.NoError(t, s.SetStatus("1", resource.StatusBusy))
	r, _ := s.GetByID("1")
	require.Equal(t, resource.StatusBusy, r.Status)

	s.Restore(snap)
	r, _ = s.GetByID("1")
	assert.Equal(t, resource.StatusAvailable, r.Status)
}

func TestResourceStoreRejectsDuplicateIDs(t *testing.T) {
	seed := append(resource.DefaultSeed(), resource.Resource{ID: "1", Name: "Twin", Status: resource.StatusAvailable})
	_, err := store.NewResourceStore(seed, store.PolicyIgnore)
	assert.ErrorIs(t, err, resource.ErrDuplicateResourceID)
}

func TestParseUnknownIDPolicy(t *testing.T) {
	p, err := store.ParseUnknownIDPolicy("")
	require.NoError(t, err)
	assert.Equal(t, store.PolicyIgnore, p)

	p, err = store.ParseUnknownIDPolicy("fail")
	require.NoError(t, err)
	assert.Equal(t, store.PolicyFail, p)

	_, err = store.ParseUnknownIDPolicy("explode")
	assert.Error(t, err)
}
