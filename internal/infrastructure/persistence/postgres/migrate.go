package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator applies the embedded schema migrations
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// Migrate brings the configured database up to the latest schema
func Migrate(cfg *config.Config, logger *zap.Logger) error {
	m, err := NewMigrator(cfg.GetDSN(), cfg.Database.Database, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// NewMigrator opens a dedicated connection for schema changes
func NewMigrator(dsn, databaseName string, logger *zap.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{
		MigrationsTable: "schema_migrations",
		DatabaseName:    databaseName,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger.Named("migrator")}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	start := time.Now()

	from, _, err := m.Version()
	if err != nil {
		return err
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to run", zap.Uint("current_version", from))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, _, _ := m.Version()
	m.logger.Info("Migrations completed successfully",
		zap.Uint("from_version", from),
		zap.Uint("to_version", to),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Down rolls back one migration
func (m *Migrator) Down() error {
	if err := m.migrate.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	m.logger.Info("Migration rolled back")
	return nil
}

// Version returns the applied version. A database without migrations
// reports version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the migration source and connection
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
