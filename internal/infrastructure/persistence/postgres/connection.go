// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
)

const pingTimeout = 10 * time.Second

// ConnectionManager owns the primary connection and any read replicas
type ConnectionManager struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *zap.Logger
}

// NewConnectionManager opens the primary database, registers read replicas
// and applies pool settings from the configuration.
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	log = log.Named("postgres")

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:                 newGORMLogger(cfg.Database, log),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cm := &ConnectionManager{db: db, sqlDB: sqlDB, logger: log}
	if err := cm.registerReplicas(cfg); err != nil {
		log.Warn("Failed to register read replicas", zap.Error(err))
	}

	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("read_replicas", len(cfg.Database.ReadReplicas)),
	)
	return cm, nil
}

// registerReplicas routes reads to the replicas. Writes and transactions
// stay on the primary, which keeps the pantry's load-modify-save on one node.
func (cm *ConnectionManager) registerReplicas(cfg *config.Config) error {
	dsns := cfg.ReplicaDSNs()
	if len(dsns) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(dsns))
	for i, dsn := range dsns {
		replicas[i] = postgres.Open(dsn)
	}

	return cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cfg.Database.MaxOpenConns).
		SetMaxIdleConns(cfg.Database.MaxIdleConns).
		SetConnMaxLifetime(cfg.Database.ConnMaxLifetime))
}

// DB returns the GORM handle
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// SQLDB returns the primary connection pool
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.sqlDB
}

// HealthCheck pings the primary database
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes the primary connection pool
func (cm *ConnectionManager) Close() error {
	return cm.sqlDB.Close()
}

func newGORMLogger(cfg config.DatabaseConfig, log *zap.Logger) logger.Interface {
	level := logger.Warn
	switch cfg.LogLevel {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "info", "debug":
		level = logger.Info
	}

	return logger.New(
		&gormLogWriter{logger: log},
		logger.Config{
			SlowThreshold:             cfg.SlowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// gormLogWriter forwards GORM's log lines to zap
type gormLogWriter struct {
	logger *zap.Logger
}

// Printf implements logger.Writer
func (w *gormLogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	case strings.Contains(strings.ToLower(msg), "error"):
		w.logger.Error("GORM error", zap.String("message", msg))
	default:
		w.logger.Debug("GORM log", zap.String("message", msg))
	}
}
