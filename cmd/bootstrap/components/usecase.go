package components

import (
	"log/slog"

	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/store"
	"shop-order-scheduler/internal/usecase/commands"
	"shop-order-scheduler/internal/usecase/queries"
	"shop-order-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		NewOrderCommands,
		queries.NewOrderQueries,
		queries.NewResourceQueries,
		queries.NewDashboardQueries,
	),
)

func NewOrderCommands(
	cfg config.Config,
	orders *store.OrderStore,
	resources *store.ResourceStore,
	journal shared.Journal,
	idem shared.IdempotencyStore,
	publisher shared.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) commands.OrderCommands {
	return commands.NewOrderCommands(orders, resources, journal, idem, publisher, clk, logger, OrderCommandOptions(cfg))
}

func OrderCommandOptions(cfg config.Config) commands.Options {
	return commands.Options{
		Coupling:            commands.CouplingMode(cfg.Scheduling.CouplingMode),
		Location:            cfg.Scheduling.Location(),
		Producer:            cfg.Events.Producer,
		IdempotencyTTL:      cfg.Idempotency.TTL,
		ProcessingTTL:       cfg.Idempotency.ProcessingTTL,
		RejectBusyResources: cfg.Scheduling.RejectBusyResources,
	}
}
