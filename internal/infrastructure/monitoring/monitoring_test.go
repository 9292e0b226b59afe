package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
)

func TestMetricsCollector_KitchenMetrics(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.RecordAnalysis("recipe", ingredient.Summary{Total: 4, InInventory: 2, Insufficient: 1, Missing: 1, Unparseable: 1}, time.Millisecond)
	m.RecordScaling(3, nil)
	m.RecordScaling(3, errors.New("bad servings"))
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.RecordBulkWrite("cook", 2, 1)
	m.RecordEvent("pantry.inventory.consumed")
	m.RecordError("healthcheck", "pantry_load")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("recipe")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysisItems.WithLabelValues(ingredient.InInventory.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysisItems.WithLabelValues("insufficient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scalingTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scalingTotal.WithLabelValues("rejected")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.scaledLines), "rejected requests do not count lines")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bulkLines.WithLabelValues("cook", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bulkLines.WithLabelValues("cook", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.domainEvents.WithLabelValues("pantry.inventory.consumed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("healthcheck", "pantry_load")))
}

func TestMetricsCollector_CollectorsAreIndependent(t *testing.T) {
	a := NewMetricsCollector(zap.NewNop())
	b := NewMetricsCollector(zap.NewNop())

	a.RecordCacheLookup(true)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cacheLookups.WithLabelValues("hit")))
}

func TestMetricsCollector_HTTPMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetricsCollector(zap.NewNop())

	router := gin.New()
	router.Use(m.HTTPMiddleware())
	router.GET("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("http", "client_error")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pantry_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{ServiceName: "pantry"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.Enabled())

	ctx, span := tp.StartSpan(context.Background(), "noop")
	tp.RecordError(ctx, errors.New("boom"))
	span.End()
	assert.False(t, span.SpanContext().IsValid())

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracingProvider_Enabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{
		ServiceName:  "pantry",
		Environment:  "test",
		OTLPEndpoint: "localhost:4318",
		Insecure:     true,
		SamplingRate: 1,
		Enabled:      true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	_, span := tp.StartSpan(context.Background(), "sampled")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
