// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	return r.db.WithContext(ctx).Create(RecipeToModel(rec)).Error
}

// Update saves a recipe whose version was bumped by the aggregate. A row
// already holding the same or a newer version is left alone.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"version":       model.Version,
			"title":         model.Title,
			"description":   model.Description,
			"base_servings": model.BaseServings,
			"ingredients":   model.Ingredients,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&RecipeModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound(model.ID)
		}
		return apperrors.NewConflictError("recipe was modified concurrently").
			WithMetadata("recipe_id", model.ID.String())
	}

	return nil
}

// Delete deletes a recipe by ID
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return notFound(id)
	}

	return nil
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// List returns a page of recipes, newest first
func (r *RecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int, error) {
	var models []RecipeModel
	var total int64

	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, int(total), nil
}

func notFound(id uuid.UUID) error {
	return apperrors.NewRecipeNotFoundError(id.String()).WithCause(recipe.ErrRecipeNotFound)
}
