// Package journal persists the order and resource collections so the
// in-memory stores survive a restart. Every command's ChangeSet is written in
// one transaction; a failed commit leaves the journal untouched.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/usecase/shared"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Memory keeps nothing; state lives only in the stores.
type Memory struct{}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (shared.JournalState, error) {
	return shared.JournalState{}, nil
}

func (m *Memory) SeedResources(context.Context, []resource.Resource) error {
	return nil
}

func (m *Memory) Commit(context.Context, shared.ChangeSet) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Restore loads persisted state, seeding the resource table first when it is
// empty. The returned state is what the stores should start from.
func Restore(ctx context.Context, j shared.Journal, seed []resource.Resource, logger *slog.Logger) (shared.JournalState, error) {
	state, err := j.Load(ctx)
	if err != nil {
		return shared.JournalState{}, fmt.Errorf("failed to load journal: %w", err)
	}
	if len(state.Resources) > 0 {
		logger.Info("journal restored",
			slog.Int("resources", len(state.Resources)),
			slog.Int("orders", len(state.Orders)))
		return state, nil
	}

	if err := j.SeedResources(ctx, seed); err != nil {
		return shared.JournalState{}, fmt.Errorf("failed to seed resources: %w", err)
	}
	logger.Info("journal seeded", slog.Int("resources", len(seed)))
	state.Resources = seed
	return state, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
