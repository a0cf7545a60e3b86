package bootstrap

import (
	"log/slog"

	"shop-order-scheduler/internal/handler/middleware"
	"shop-order-scheduler/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewRequestLogger,
		NewLogger,
	),
)

func NewRequestLogger(cfg config.Config) *middleware.Logger {
	return middleware.NewLogger(cfg.Log)
}

// NewLogger exposes the configured slog logger and installs it as default.
func NewLogger(l *middleware.Logger) *slog.Logger {
	logger := l.GetSlogLogger()
	slog.SetDefault(logger)
	return logger
}
