package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

// RecipeRepository keeps recipe snapshots in a map. Callers always get a
// fresh aggregate, so mutating a returned recipe never touches the store.
type RecipeRepository struct {
	recipes map[uuid.UUID]recipe.Snapshot
	mutex   sync.RWMutex
}

// NewRecipeRepository creates an empty recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: make(map[uuid.UUID]recipe.Snapshot)}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Create stores a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.recipes[rec.ID()]; exists {
		return apperrors.NewConflictError("recipe already exists").
			WithMetadata("recipe_id", rec.ID().String())
	}
	r.recipes[rec.ID()] = rec.Snapshot()
	return nil
}

// Update replaces a stored recipe unless the store already holds the same
// or a newer version.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, exists := r.recipes[rec.ID()]
	if !exists {
		return notFound(rec.ID())
	}
	if stored.Version >= rec.Version() {
		return apperrors.NewConflictError("recipe was modified concurrently").
			WithMetadata("recipe_id", rec.ID().String())
	}
	r.recipes[rec.ID()] = rec.Snapshot()
	return nil
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.recipes[id]; !exists {
		return notFound(id)
	}
	delete(r.recipes, id)
	return nil
}

// FindByID returns one recipe
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, exists := r.recipes[id]
	if !exists {
		return nil, notFound(id)
	}
	return recipe.Restore(s), nil
}

// List returns a page of recipes, newest first
func (r *RecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int, error) {
	r.mutex.RLock()
	snapshots := make([]recipe.Snapshot, 0, len(r.recipes))
	for _, s := range r.recipes {
		snapshots = append(snapshots, s)
	}
	r.mutex.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID.String() < snapshots[j].ID.String()
	})

	total := len(snapshots)
	if offset >= total {
		return []*recipe.Recipe{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	page := make([]*recipe.Recipe, 0, end-offset)
	for _, s := range snapshots[offset:end] {
		page = append(page, recipe.Restore(s))
	}
	return page, total, nil
}

func notFound(id uuid.UUID) error {
	return apperrors.NewRecipeNotFoundError(id.String()).WithCause(recipe.ErrRecipeNotFound)
}
