package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormrepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// Backend is a set of repositories tests can run the service against
type Backend struct {
	Name     string
	Recipes  outbound.RecipeRepository
	Pantries outbound.PantryRepository
}

// SetupTestDatabase opens a private in-memory SQLite database with the
// schema migrated. It is closed when the test ends.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase("", logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// MemoryBackend returns fresh in-memory repositories
func MemoryBackend() Backend {
	return Backend{
		Name:     "memory",
		Recipes:  memory.NewRecipeRepository(),
		Pantries: memory.NewPantryRepository(),
	}
}

// SQLiteBackend returns GORM repositories over a fresh SQLite database
func SQLiteBackend(t *testing.T) Backend {
	db := SetupTestDatabase(t)
	return Backend{
		Name:     "sqlite",
		Recipes:  gormrepo.NewRecipeRepository(db),
		Pantries: gormrepo.NewPantryRepository(db),
	}
}
