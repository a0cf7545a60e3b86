package middleware

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"shop-order-scheduler/internal/pkg/config"
	"shop-order-scheduler/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	ctxRequestIDKey = "request_id"
)

type Logger struct {
	logger   *slog.Logger
	timezone *time.Location
}

// NewLogger builds the process logger: JSON in release mode, text otherwise,
// with timestamps rendered in the configured zone.
func NewLogger(cfg config.LogConfig) *Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LogConfig, w io.Writer) *Logger {
	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		logger:   slog.New(handler),
		timezone: timezone,
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// LoggingMiddleware logs each request and threads the request id into the
// request context so emitted events carry it as correlation id.
func (l *Logger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = l.generateRequestID()
		}

		c.Set(ctxRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(shared.WithCorrelationID(c.Request.Context(), requestID))

		logAttrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		}
		if idempotencyKey := c.GetHeader("Idempotency-Key"); idempotencyKey != "" {
			logAttrs = append(logAttrs, slog.String("idempotency_key", idempotencyKey))
		}

		l.logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "Request started", logAttrs...)

		c.Next()

		statusCode := c.Writer.Status()

		responseAttrs := make([]slog.Attr, len(logAttrs), len(logAttrs)+5)
		copy(responseAttrs, logAttrs)
		responseAttrs = append(responseAttrs,
			slog.Int("status_code", statusCode),
			slog.Duration("duration", time.Since(startTime)),
		)
		if p, ok := GetPrincipal(c); ok {
			responseAttrs = append(responseAttrs,
				slog.String("subject", p.Subject()),
				slog.String("role", p.Role().String()))
		}
		if responseSize := c.Writer.Size(); responseSize > 0 {
			responseAttrs = append(responseAttrs, slog.Int("response_size", responseSize))
		}
		if len(c.Errors) > 0 {
			responseAttrs = append(responseAttrs, slog.String("errors", c.Errors.String()))
		}

		logLevel := slog.LevelInfo
		if statusCode >= 500 {
			logLevel = slog.LevelError
		} else if statusCode >= 400 {
			logLevel = slog.LevelWarn
		}

		l.logger.LogAttrs(c.Request.Context(), logLevel, "Request completed", responseAttrs...)
	}
}

func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(ctxRequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func (l *Logger) generateRequestID() string {
	return uuid.NewString()
}
