// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrCacheMiss is returned by CacheRepository.Get for unknown or expired keys.
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	Update(ctx context.Context, recipe *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// List returns recipes ordered by creation time, newest first, and the
	// total number of recipes.
	List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int, error)
}

// PantryRepository stores the single household pantry.
type PantryRepository interface {
	// Load returns the current pantry. A store that was never written
	// returns an empty pantry at generation 0.
	Load(ctx context.Context) (*pantry.Pantry, error)

	// Update loads the pantry, applies fn and saves the result as one unit.
	// Concurrent updates are serialized. When fn fails nothing is saved and
	// its error is returned unchanged. The returned pantry still holds the
	// events fn recorded.
	Update(ctx context.Context, fn func(p *pantry.Pantry) error) (*pantry.Pantry, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher receives domain events after their aggregate was saved
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}

// MetricsRecorder records kitchen service activity
type MetricsRecorder interface {
	RecordAnalysis(flow string, summary ingredient.Summary, duration time.Duration)
	RecordScaling(lines int, err error)
	RecordCacheLookup(hit bool)
	RecordBulkWrite(operation string, applied, skipped int)
}
