// Package middleware provides HTTP middleware components
// following the Chain of Responsibility pattern
package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/pkg/errors"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

// Middleware provides all middleware functions
type Middleware struct {
	config  *config.Config
	logger  *zap.Logger
	clients *clientLimiters
}

// New creates a new middleware instance
func New(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		config: cfg,
		logger: logger.Named("http"),
		clients: newClientLimiters(
			rate.Limit(float64(cfg.RateLimit.RequestsPerMin)/60),
			cfg.RateLimit.BurstSize,
		),
	}
}

// RequestID adds a unique request ID to the context
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("request.id", requestID))

		c.Next()
	}
}

// Logger provides structured logging for requests
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if path == m.config.Monitoring.HealthCheckPath || path == m.config.Monitoring.ReadinessPath {
			return
		}
		if raw != "" {
			path = path + "?" + raw
		}

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Int("status", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			m.logger.Error("Server error", fields...)
		case statusCode >= 400:
			m.logger.Warn("Client error", fields...)
		default:
			m.logger.Info("Request completed", fields...)
		}
	}
}

// Recovery recovers from panics and returns 500 error
func (m *Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				m.logger.Error("Panic recovered",
					zap.String("request_id", c.GetString(RequestIDKey)),
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
				)

				appErr := errors.NewInternalError("Internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					errors.ToErrorResponse(appErr, c.GetString(RequestIDKey)))
			}
		}()

		c.Next()
	}
}

// RateLimit limits requests per client IP with a token bucket
func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.RateLimit.Enable {
			c.Next()
			return
		}

		if !m.clients.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", strconv.Itoa(m.retryAfterSeconds()))
			appErr := errors.NewAppError(errors.CodeTooManyRequests, "Rate limit exceeded", "")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				errors.ToErrorResponse(appErr, c.GetString(RequestIDKey)))
			return
		}

		c.Next()
	}
}

func (m *Middleware) retryAfterSeconds() int {
	if m.config.RateLimit.RequestsPerMin <= 0 {
		return 60
	}
	seconds := 60 / m.config.RateLimit.RequestsPerMin
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// CleanupLimiters forgets clients idle for longer than the cleanup interval,
// checking every interval until ctx is done
func (m *Middleware) CleanupLimiters(ctx context.Context) {
	interval := m.config.RateLimit.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.clients.evictIdle(interval); n > 0 {
				m.logger.Debug("Evicted idle rate limiters", zap.Int("count", n))
			}
		}
	}
}

// Security adds security headers
func (m *Middleware) Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if m.config.IsProduction() {
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}
		c.Next()
	}
}

// Timeout bounds the request context
func (m *Middleware) Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ErrorHandler renders the last error attached by a handler
func (m *Middleware) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			switch {
			case stderrors.Is(err, context.DeadlineExceeded):
				appErr = errors.NewAppError(errors.CodeServiceUnavailable, "Request timed out", "")
			case stderrors.Is(err, context.Canceled):
				appErr = errors.NewAppError(errors.CodeServiceUnavailable, "Request cancelled", "")
			default:
				appErr = errors.NewAppError(errors.CodeInternal, "An unexpected error occurred", "")
			}
			appErr.WithCause(err)
		}

		status := appErr.StatusCode()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("code", string(appErr.Code)),
			zap.String("message", appErr.Message),
			zap.Error(err),
		}
		if status >= 500 {
			m.logger.Error("Request error", fields...)
		} else {
			m.logger.Debug("Request rejected", fields...)
		}

		c.JSON(status, errors.ToErrorResponse(appErr, c.GetString(RequestIDKey)))
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

func (l *clientLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = l.now()
	return c.limiter
}

func (l *clientLimiters) evictIdle(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	evicted := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			evicted++
		}
	}
	return evicted
}
