// Package server provides the HTTP server for the pantry API
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
)

const requestTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     *gin.Engine
	server     *http.Server
	middleware *middleware.Middleware
}

// NewServer creates a new HTTP server instance. metrics may be nil when
// metrics are disabled.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	service inbound.KitchenService,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *Server {
	s := &Server{
		config:     cfg,
		logger:     logger.Named("http-server"),
		middleware: middleware.New(cfg, logger),
	}

	s.router = s.setupRouter(service, health, metrics)

	var handler http.Handler = s.router
	if cfg.Monitoring.EnableTracing {
		handler = otelhttp.NewHandler(s.router, cfg.App.Name,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *Server) setupRouter(service inbound.KitchenService, health *healthcheck.HealthCheck, metrics *monitoring.MetricsCollector) *gin.Engine {
	if !s.config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(s.config.Server.TrustedProxies); err != nil {
		s.logger.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(s.middleware.Recovery())
	r.Use(s.middleware.RequestID())
	r.Use(s.middleware.Logger())
	if metrics != nil {
		r.Use(metrics.HTTPMiddleware())
	}
	r.Use(s.middleware.Security())

	r.GET(s.config.Monitoring.HealthCheckPath, health.Handler())
	r.GET(s.config.Monitoring.ReadinessPath, health.ReadinessHandler())
	r.GET("/live", health.LivenessHandler())
	if metrics != nil {
		r.GET(s.config.Monitoring.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(s.middleware.RateLimit())
	api.Use(s.middleware.Timeout(requestTimeout))
	api.Use(s.middleware.ErrorHandler())
	handlers.NewKitchenHandlers(service, s.logger).Register(api)

	return r
}

// Handler returns the root handler, including tracing when enabled
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured address and serves in the background.
// Listen errors are returned; serve errors after startup are logged.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	go s.middleware.CleanupLimiters(ctx)

	go func() {
		s.logger.Info("Starting HTTP server", zap.String("address", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
