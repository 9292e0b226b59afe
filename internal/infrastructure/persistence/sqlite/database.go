// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
)

const memoryDSN = ":memory:"

// SetupDatabase creates and migrates the SQLite database. An empty path
// opens a private in-memory database.
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// Every connection to :memory: is a separate database, and SQLite
	// allows one writer at a time either way.
	sqlDB.SetMaxOpenConns(1)

	if dbPath != memoryDSN {
		if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	if err := gormModels.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
