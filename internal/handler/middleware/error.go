package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"shop-order-scheduler/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error when a handler aborted without
// writing a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if err.IsType(gin.ErrorTypePublic) {
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		if len(c.Errors) > 0 {
			c.JSON(http.StatusInternalServerError, httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
		}
	}
}

func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(c.Request.Context(), "recovered from panic",
					"error", fmt.Sprint(rec),
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c))

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
			}
		}()
		c.Next()
	}
}

func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, httperr.NewResponse(http.StatusNotFound, "Route not found", nil))
}
