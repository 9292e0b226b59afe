// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/alchemorsel/pantry/internal/application/kitchen"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/events"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/server"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/alchemorsel/pantry/pkg/logger"
)

const cacheEvictionInterval = time.Minute

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	InfrastructureModule,
)

// InfrastructureModule wires everything below the configuration, so tests can
// supply their own *config.Config
var InfrastructureModule = fx.Options(
	LoggerModule,
	StorageModule,
	CacheModule,
	MonitoringModule,
	EventModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// Storage bundles the repositories with the pool behind them. SQL is nil for
// the memory driver.
type Storage struct {
	Recipes  outbound.RecipeRepository
	Pantries outbound.PantryRepository
	SQL      *sql.DB
	close    func() error
}

// Close releases the database connection, if any
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// StorageModule provides the repositories for the configured driver
var StorageModule = fx.Provide(
	NewStorage,
	func(s *Storage) outbound.RecipeRepository { return s.Recipes },
	func(s *Storage) outbound.PantryRepository { return s.Pantries },
)

// NewStorage opens the configured database and builds its repositories
func NewStorage(cfg *config.Config, log *zap.Logger) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Info("Using in-memory storage")
		return &Storage{
			Recipes:  memory.NewRecipeRepository(),
			Pantries: memory.NewPantryRepository(),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.SetupDatabase(cfg.Database.Path, gormLogLevel(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == ":memory:"),
		)
		return &Storage{
			Recipes:  gormRepo.NewRecipeRepository(db),
			Pantries: gormRepo.NewPantryRepository(db),
			SQL:      sqlDB,
			close:    sqlDB.Close,
		}, nil

	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(cfg, log); err != nil {
				return nil, err
			}
		}
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Recipes:  gormRepo.NewRecipeRepository(cm.DB()),
			Pantries: gormRepo.NewPantryRepository(cm.DB()),
			SQL:      cm.SQLDB(),
			close:    cm.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func gormLogLevel(cfg *config.Config) gormLogger.LogLevel {
	switch cfg.Database.LogLevel {
	case "info":
		return gormLogger.Info
	case "warn":
		return gormLogger.Warn
	case "error":
		return gormLogger.Error
	}
	if cfg.App.Debug {
		return gormLogger.Info
	}
	return gormLogger.Silent
}

// Cache is the analysis cache together with the backend that serves it.
// Exactly one of Redis and Memory is set.
type Cache struct {
	Repository outbound.CacheRepository
	Redis      *goredis.Client
	Memory     *memory.CacheRepository
}

// CacheModule provides caching
var CacheModule = fx.Provide(
	NewCache,
	func(c *Cache) outbound.CacheRepository { return c.Repository },
)

// NewCache connects to Redis when enabled and falls back to process memory
func NewCache(cfg *config.Config, log *zap.Logger) (*Cache, error) {
	if !cfg.Redis.Enabled {
		log.Info("Using in-memory analysis cache")
		mem := memory.NewCacheRepository()
		return &Cache{Repository: mem, Memory: mem}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Cache{
		Repository: redis.NewCacheRepository(client, cfg.Redis.KeyPrefix, log),
		Redis:      client,
	}, nil
}

// MonitoringModule provides metrics and tracing. The metrics collector is nil
// when metrics are disabled.
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *monitoring.MetricsCollector {
		if !cfg.Monitoring.EnableMetrics {
			return nil
		}
		return monitoring.NewMetricsCollector(log)
	},
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
	NewHealthCheck,
)

// NewHealthCheck registers a checker for every backing service
func NewHealthCheck(
	cfg *config.Config,
	log *zap.Logger,
	storage *Storage,
	cache *Cache,
	pantries outbound.PantryRepository,
	metrics *monitoring.MetricsCollector,
) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)

	if storage.SQL != nil {
		hc.Register("database", healthcheck.NewDatabaseChecker(storage.SQL))
	}
	if cache.Redis != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(cache.Redis))
	}
	hc.Register("pantry", healthcheck.NewCustomChecker("pantry",
		func(ctx context.Context) (healthcheck.Status, string, interface{}) {
			p, err := pantries.Load(ctx)
			if err != nil {
				if metrics != nil {
					metrics.RecordError("healthcheck", "pantry_load")
				}
				return healthcheck.StatusUnhealthy, err.Error(), nil
			}
			return healthcheck.StatusHealthy, "", map[string]interface{}{
				"generation":    p.Generation(),
				"inventory":     len(p.Inventory()),
				"shopping_list": len(p.ShoppingList()),
			}
		},
	))

	return hc
}

// EventModule provides event handling
var EventModule = fx.Provide(
	func(log *zap.Logger, metrics *monitoring.MetricsCollector) *events.Dispatcher {
		d := events.NewDispatcher(log)
		if metrics != nil {
			d.Subscribe(events.AllEvents, func(_ context.Context, e shared.DomainEvent) error {
				metrics.RecordEvent(e.EventName())
				return nil
			})
		}
		return d
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		recipes outbound.RecipeRepository,
		pantries outbound.PantryRepository,
		cache outbound.CacheRepository,
		dispatcher *events.Dispatcher,
		metrics *monitoring.MetricsCollector,
	) inbound.KitchenService {
		var recorder outbound.MetricsRecorder
		if metrics != nil {
			recorder = metrics
		}
		return kitchen.NewKitchenService(recipes, pantries, cache, dispatcher, recorder,
			kitchen.Config{AnalysisCacheTTL: cfg.Cache.AnalysisTTL}, log)
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	storage *Storage,
	cache *Cache,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
	srv *server.Server,
) {
	background, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting pantry service",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.Bool("redis", cache.Redis != nil),
			)

			if cache.Memory != nil {
				go cache.Memory.Run(background, cacheEvictionInterval)
			}
			if metrics != nil {
				var stats func() sql.DBStats
				if storage.SQL != nil {
					stats = storage.SQL.Stats
				}
				go metrics.StartUptimeCounter(background, stats)
			}

			return srv.Start(background)
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down pantry service")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			cancel()

			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to flush traces", zap.Error(err))
			}
			if err := storage.Close(); err != nil {
				log.Error("Failed to close database connection", zap.Error(err))
			}
			if cache.Redis != nil {
				if err := cache.Redis.Close(); err != nil {
					log.Error("Failed to close Redis connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
