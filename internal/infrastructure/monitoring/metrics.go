// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

const namespace = "pantry"

// MetricsCollector handles Prometheus metrics collection. Every collector is
// registered on its own registry so tests can create as many as they need.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Kitchen metrics
	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	analysisItems    *prometheus.CounterVec
	scalingTotal     *prometheus.CounterVec
	scaledLines      prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	bulkLines        *prometheus.CounterVec
	domainEvents     *prometheus.CounterVec

	// System metrics
	dbConnectionsOpen  prometheus.Gauge
	dbConnectionsInUse prometheus.Gauge
	dbConnectionsIdle  prometheus.Gauge
	uptimeSeconds      prometheus.Counter
	errorsTotal        *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Ingredient analyses run, by flow",
			},
			[]string{"flow"},
		),
		analysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Time spent analyzing ingredient lines",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"flow"},
		),
		analysisItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_items_total",
				Help:      "Analyzed ingredient lines, by status",
			},
			[]string{"status"},
		),
		scalingTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scaling_requests_total",
				Help:      "Scaling requests, by outcome",
			},
			[]string{"status"},
		),
		scaledLines: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scaled_lines_total",
				Help:      "Ingredient lines passed to the scaling engine",
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_cache_lookups_total",
				Help:      "Analysis cache lookups, by result",
			},
			[]string{"result"},
		),
		bulkLines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_write_lines_total",
				Help:      "Lines handled by bulk pantry writes",
			},
			[]string{"operation", "result"},
		),

		dbConnectionsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_open",
				Help:      "Number of open database connections",
			},
		),
		dbConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_in_use",
				Help:      "Number of database connections in use",
			},
		),
		dbConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),
		uptimeSeconds: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uptime_seconds_total",
				Help:      "Total uptime in seconds",
			},
		),
		domainEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Published domain events, by event name",
			},
			[]string{"event"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Errors, by source and type",
			},
			[]string{"source", "error_type"},
		),
	}
}

var _ outbound.MetricsRecorder = (*MetricsCollector)(nil)

// HTTPMiddleware creates a Gin middleware for HTTP metrics collection
func (m *MetricsCollector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		statusCode := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, statusCode).
			Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(c.Request.Method, path).
			Observe(float64(c.Writer.Size()))

		if status >= 400 {
			errorType := "client_error"
			if status >= 500 {
				errorType = "server_error"
			}
			m.errorsTotal.WithLabelValues("http", errorType).Inc()
		}
	}
}

// RecordAnalysis counts one analysis and its items per status
func (m *MetricsCollector) RecordAnalysis(flow string, summary ingredient.Summary, duration time.Duration) {
	m.analysesTotal.WithLabelValues(flow).Inc()
	m.analysisDuration.WithLabelValues(flow).Observe(duration.Seconds())

	m.analysisItems.WithLabelValues(ingredient.InInventory.String()).Add(float64(summary.InInventory))
	m.analysisItems.WithLabelValues("insufficient").Add(float64(summary.Insufficient))
	m.analysisItems.WithLabelValues(ingredient.InShoppingList.String()).Add(float64(summary.InShoppingList))
	m.analysisItems.WithLabelValues(ingredient.Missing.String()).Add(float64(summary.Missing))
	m.analysisItems.WithLabelValues(ingredient.Unparseable.String()).Add(float64(summary.Unparseable))
}

// RecordScaling counts one scaling request
func (m *MetricsCollector) RecordScaling(lines int, err error) {
	if err != nil {
		m.scalingTotal.WithLabelValues("rejected").Inc()
		m.errorsTotal.WithLabelValues("scaling", "invalid_argument").Inc()
		return
	}
	m.scalingTotal.WithLabelValues("ok").Inc()
	m.scaledLines.Add(float64(lines))
}

// RecordCacheLookup counts one analysis cache lookup
func (m *MetricsCollector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordBulkWrite counts the lines a bulk pantry write applied and skipped
func (m *MetricsCollector) RecordBulkWrite(operation string, applied, skipped int) {
	m.bulkLines.WithLabelValues(operation, "applied").Add(float64(applied))
	m.bulkLines.WithLabelValues(operation, "skipped").Add(float64(skipped))
}

// RecordEvent counts one published domain event
func (m *MetricsCollector) RecordEvent(name string) {
	m.domainEvents.WithLabelValues(name).Inc()
}

// UpdateDBConnections copies the pool statistics into gauges
func (m *MetricsCollector) UpdateDBConnections(stats sql.DBStats) {
	m.dbConnectionsOpen.Set(float64(stats.OpenConnections))
	m.dbConnectionsInUse.Set(float64(stats.InUse))
	m.dbConnectionsIdle.Set(float64(stats.Idle))
}

// RecordError counts an error outside the HTTP path
func (m *MetricsCollector) RecordError(source, errorType string) {
	m.errorsTotal.WithLabelValues(source, errorType).Inc()
}

// StartUptimeCounter counts uptime and refreshes the pool gauges every
// second until ctx is done. stats may be nil.
func (m *MetricsCollector) StartUptimeCounter(ctx context.Context, stats func() sql.DBStats) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.uptimeSeconds.Inc()
			if stats != nil {
				m.UpdateDBConnections(stats())
			}
		}
	}
}

// Registry returns the registry the collector writes to
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:          zap.NewStdLog(m.logger),
		EnableOpenMetrics: true,
	})
}
