package components

import (
	"log/slog"

	"shop-order-scheduler/internal/handler"
	"shop-order-scheduler/internal/handler/api"
	"shop-order-scheduler/internal/handler/middleware"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewResourceHandler,
		api.NewDashboardHandler,
		NewAuthMiddleware,
	),
	fx.Invoke(RegisterRoutes),
)

func NewAuthMiddleware(cfg config.Config, tokens *jwt.Service, logger *slog.Logger) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(tokens, cfg.JWT.Enabled, logger)
}

func RegisterRoutes(
	engine *gin.Engine,
	cfg config.Config,
	orders *api.OrderHandler,
	resources *api.ResourceHandler,
	dashboard *api.DashboardHandler,
	auth *middleware.AuthMiddleware,
	logger *middleware.Logger,
) {
	handler.NewRouter(engine, cfg, handler.Handlers{
		Orders:    orders,
		Resources: resources,
		Dashboard: dashboard,
		Auth:      auth,
		Logger:    logger,
	})
}
