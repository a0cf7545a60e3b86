package middleware

import (
	"log/slog"
	"slices"

	"shop-order-scheduler/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	// A wildcard origin cannot be combined with credentials.
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	logger.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins)
	return cors.New(corsCfg)
}
