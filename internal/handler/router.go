package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"shop-order-scheduler/internal/domain/auth"
	"shop-order-scheduler/internal/handler/api"
	"shop-order-scheduler/internal/handler/middleware"
	"shop-order-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Orders    *api.OrderHandler
	Resources *api.ResourceHandler
	Dashboard *api.DashboardHandler
	Auth      *middleware.AuthMiddleware
	Logger    *middleware.Logger
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg, h.Logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger.GetSlogLogger()))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger.GetSlogLogger()))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
	engine.NoRoute(middleware.NoRoute)
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	operator := []gin.HandlerFunc{h.Auth.RequireRole(auth.RoleOperator)}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup.Group("/resources"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Resources.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Resources.Get},
		})

		addRoutes(apiGroup.Group("/orders"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Orders.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Orders.Get},
			{Method: http.MethodPost, Path: "", Handler: h.Orders.Create, Mw: operator},
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Orders.Update, Mw: operator},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Orders.Delete, Mw: operator},
		})

		addRoutes(apiGroup.Group("/dashboard"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Dashboard.Overview},
			{Method: http.MethodGet, Path: "/status-counts", Handler: h.Dashboard.StatusCounts},
			{Method: http.MethodGet, Path: "/utilization", Handler: h.Dashboard.Utilization},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
