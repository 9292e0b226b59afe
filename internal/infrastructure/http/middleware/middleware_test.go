package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestMiddleware() *Middleware {
	return New(&config.Config{
		RateLimit: config.RateLimitConfig{Enable: true, RequestsPerMin: 60, BurstSize: 1},
	}, zap.NewNop())
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorCode {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error.Code
}

func TestClientLimiters_EvictIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newClientLimiters(1, 1)
	l.now = func() time.Time { return now }

	first := l.get("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.get("10.0.0.2")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, l.evictIdle(time.Minute))
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.2")

	assert.NotSame(t, first, l.get("10.0.0.1"), "evicted clients start with a fresh bucket")
}

func TestRateLimit_PerClient(t *testing.T) {
	m := newTestMiddleware()
	r := gin.New()
	r.Use(m.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		perMin int
		want   int
	}{
		{0, 60},
		{1, 60},
		{30, 2},
		{600, 1},
	}

	for _, tt := range tests {
		m := &Middleware{config: &config.Config{RateLimit: config.RateLimitConfig{RequestsPerMin: tt.perMin}}}
		assert.Equal(t, tt.want, m.retryAfterSeconds(), "requests per minute %d", tt.perMin)
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   apperrors.ErrorCode
	}{
		{"app error", apperrors.NewInvalidArgumentError("id", "must be a UUID"), http.StatusBadRequest, apperrors.CodeInvalidArgument},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, apperrors.CodeServiceUnavailable},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, apperrors.CodeServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMiddleware()
			r := gin.New()
			r.Use(m.RequestID(), m.ErrorHandler())
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := serve(r, "/")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeCode(t, w))
		})
	}
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	m := newTestMiddleware()
	r := gin.New()
	r.Use(m.ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusAccepted, "done")
		_ = c.Error(errors.New("late"))
	})

	w := serve(r, "/")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "done", w.Body.String())
}

func TestRecovery(t *testing.T) {
	m := newTestMiddleware()
	r := gin.New()
	r.Use(m.Recovery(), m.RequestID())
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.CodeInternal, decodeCode(t, w))
}

func TestTimeout_SetsDeadline(t *testing.T) {
	m := newTestMiddleware()
	r := gin.New()
	r.Use(m.Timeout(time.Second))

	var deadline time.Time
	var ok bool
	r.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	start := time.Now()
	serve(r, "/")
	require.True(t, ok)
	assert.WithinDuration(t, start.Add(time.Second), deadline, 500*time.Millisecond)
}

func TestSecurity_ProductionAddsCSP(t *testing.T) {
	m := New(&config.Config{App: config.AppConfig{Environment: "production"}}, zap.NewNop())
	r := gin.New()
	r.Use(m.Security())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "/")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestCleanupLimiters_StopsWithContext(t *testing.T) {
	m := newTestMiddleware()
	m.config.RateLimit.CleanupInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.CleanupLimiters(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
