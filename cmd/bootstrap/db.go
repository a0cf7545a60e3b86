package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"shop-order-scheduler/internal/infra/db"
	"shop-order-scheduler/internal/infra/journal"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

const connectTimeout = 15 * time.Second

var JournalModule = fx.Module("journal",
	fx.Provide(
		NewJournal,
	),
)

// NewJournal opens the configured journal. Postgres connections are opened
// here so the memory and sqlite drivers need no database.
func NewJournal(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.Journal, error) {
	switch cfg.Journal.Driver {
	case journal.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, cleanup, err := db.Connect(ctx, cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		j, err := journal.NewPostgres(ctx, pool, logger, cfg.Journal.MaxRetries)
		if err != nil {
			cleanup()
			return nil, err
		}
		return j, nil

	case journal.DriverSQLite:
		j, err := journal.OpenSQLite(cfg.Journal.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return j.Close()
			},
		})
		return j, nil

	default:
		return journal.NewMemory(), nil
	}
}
