package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"shop-order-scheduler/internal/domain/auth"
	"shop-order-scheduler/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const ctxPrincipalKey = "principal"

var (
	errMissingToken     = errors.New("missing bearer token")
	errInsufficientRole = errors.New("insufficient role")
)

type TokenValidator interface {
	ValidateToken(token string) (auth.Principal, error)
}

// AuthMiddleware guards mutating routes. With auth disabled every guard is a
// pass-through.
type AuthMiddleware struct {
	tokens  TokenValidator
	enabled bool
	logger  *slog.Logger
}

func NewAuthMiddleware(tokens TokenValidator, enabled bool, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, enabled: enabled, logger: logger}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// RequireRole authenticates the bearer token and checks the caller's role is
// at least minRole (viewer < operator < admin).
func (m *AuthMiddleware) RequireRole(minRole auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		principal, err := m.tokens.ValidateToken(token)
		if err != nil {
			m.logger.Warn("token validation failed", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		if !principal.Role().AtLeast(minRole) {
			httperr.AbortWithError(c, http.StatusForbidden, errInsufficientRole, "Insufficient permissions", nil)
			return
		}

		c.Set(ctxPrincipalKey, principal)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
