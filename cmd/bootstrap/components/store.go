package components

import (
	"context"
	"log/slog"
	"time"

	"shop-order-scheduler/internal/domain/resource"
	"shop-order-scheduler/internal/infra/journal"
	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/store"
	"shop-order-scheduler/internal/usecase/queries"
	"shop-order-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

const restoreTimeout = 30 * time.Second

var StoreModule = fx.Module("store",
	fx.Provide(
		clock.NewRealClock,
		NewStores,
		func(s Stores) *store.OrderStore { return s.Orders },
		func(s Stores) *store.ResourceStore { return s.Resources },
		func(s Stores) queries.OrderReader { return s.Orders },
		func(s Stores) queries.ResourceReader { return s.Resources },
	),
)

type Stores struct {
	Orders    *store.OrderStore
	Resources *store.ResourceStore
}

// NewStores seeds the in-memory stores from the journal, writing the resource
// seed into it on first start.
func NewStores(cfg config.Config, j shared.Journal, clk clock.Clock, logger *slog.Logger) (Stores, error) {
	policy, err := store.ParseUnknownIDPolicy(cfg.Scheduling.UnknownIDPolicy)
	if err != nil {
		return Stores{}, err
	}
	seed, err := resource.LoadSeed(cfg.Scheduling.ResourceSeedFile)
	if err != nil {
		return Stores{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()
	state, err := journal.Restore(ctx, j, seed, logger)
	if err != nil {
		return Stores{}, err
	}

	resources, err := store.NewResourceStore(state.Resources, policy)
	if err != nil {
		return Stores{}, err
	}
	orders := store.NewOrderStore(clk, policy)
	if err := orders.Replace(state.Orders); err != nil {
		return Stores{}, err
	}

	return Stores{Orders: orders, Resources: resources}, nil
}
