package components

import (
	"context"
	"log/slog"

	"shop-order-scheduler/internal/infra/events"
	"shop-order-scheduler/internal/infra/idempotency"
	"shop-order-scheduler/internal/pkg/clock"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewEventPublisher,
		NewIdempotencyStore,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.EventPublisher, error) {
	var (
		p   shared.EventPublisher
		err error
	)
	switch cfg.Events.Driver {
	case events.DriverKafka:
		p = events.NewKafkaPublisher(cfg.Events.KafkaBrokers, logger)
	case events.DriverRabbitMQ:
		p, err = events.NewRabbitPublisher(cfg.Events.RabbitMQURL, cfg.Events.RabbitMQExchange, logger)
		if err != nil {
			return nil, err
		}
	default:
		p = events.NewLogPublisher(logger)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	logger.Info("event publisher ready", "driver", cfg.Events.Driver)
	return p, nil
}

func NewIdempotencyStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (shared.IdempotencyStore, error) {
	if cfg.Idempotency.Driver != "redis" {
		return idempotency.NewMemoryStore(clk), nil
	}

	rdb := idempotency.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return idempotency.NewRedisStore(rdb, logger), nil
}
