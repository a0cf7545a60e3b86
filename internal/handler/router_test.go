//go:build unit

package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"shop-order-scheduler/internal/domain/auth"
	"shop-order-scheduler/internal/handler"
	"shop-order-scheduler/internal/handler/api"
	"shop-order-scheduler/internal/handler/middleware"
	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/pkg/jwt"
	"shop-order-scheduler/internal/usecase/queries"
	"shop-order-scheduler/tests/common/httptest"
	commandsmock "shop-order-scheduler/tests/mock/commands"
	queriesmock "shop-order-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RouterTestSuite struct {
	suite.Suite
	router   *gin.Engine
	tokens   *jwt.Service
	commands *commandsmock.MockOrderCommands
	orders   *queriesmock.MockOrderQueries
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()
	cfg.JWT.Enabled = true

	ctrl := gomock.NewController(s.T())
	s.commands = commandsmock.NewMockOrderCommands(ctrl)
	s.orders = queriesmock.NewMockOrderQueries(ctrl)
	s.tokens = jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = gin.New()
	handler.NewRouter(s.router, cfg, handler.Handlers{
		Orders:    api.NewOrderHandler(s.commands, s.orders),
		Resources: api.NewResourceHandler(queriesmock.NewMockResourceQueries(ctrl)),
		Dashboard: api.NewDashboardHandler(queriesmock.NewMockDashboardQueries(ctrl)),
		Auth:      middleware.NewAuthMiddleware(s.tokens, true, logger),
		Logger:    middleware.NewLogger(cfg.Log),
	})
}

func (s *RouterTestSuite) token(role auth.Role) string {
	p, err := auth.NewPrincipal("planner-1", role)
	s.Require().NoError(err)
	tok, err := s.tokens.GenerateToken(p)
	s.Require().NoError(err)
	return tok
}

func (s *RouterTestSuite) TestHealth() {
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/health", nil, "")

	s.Equal(http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(middleware.HeaderRequestID))
	s.NoError(err, "generated request id is a UUID")
}

func (s *RouterTestSuite) TestRequestIDIsEchoed() {
	rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodGet, "/health", nil,
		map[string]string{middleware.HeaderRequestID: "req-42"})

	s.Equal("req-42", rec.Header().Get(middleware.HeaderRequestID))
}

func (s *RouterTestSuite) TestUnknownRoute() {
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/nope", nil, "")

	httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Route not found")
}

func (s *RouterTestSuite) TestReadsStayOpen() {
	s.orders.EXPECT().List(gomock.Any(), gomock.Any()).Return([]queries.OrderView{}, nil, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/orders", nil, "")

	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestMutationsRequireOperator() {
	s.Run("missing token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/orders/ord-1", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("garbage token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/orders/ord-1", nil, "not-a-jwt")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("viewer is forbidden", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/orders/ord-1", nil, s.token(auth.RoleViewer))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("operator passes", func() {
		s.commands.EXPECT().Delete(gomock.Any(), "ord-1").Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/orders/ord-1", nil, s.token(auth.RoleOperator))

		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("admin passes", func() {
		s.commands.EXPECT().Delete(gomock.Any(), "ord-1").Return(errs.ErrOrderNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/orders/ord-1", nil, s.token(auth.RoleAdmin))

		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := middleware.NewAuthMiddleware(jwt.NewService("unused", time.Hour), false, logger)

	r := gin.New()
	r.POST("/x", m.RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusAccepted) })

	rec := httptest.PerformRequest(t, r, http.MethodPost, "/x", nil, "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRecoveryRendersEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.Use(middleware.CustomRecovery(logger))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := httptest.PerformRequest(t, r, http.MethodGet, "/panic", nil, "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}
