package gorm

import (
	"github.com/google/uuid"

	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	s := r.Snapshot()
	return &RecipeModel{
		ID:           s.ID,
		Version:      s.Version,
		Title:        s.Title,
		Description:  s.Description,
		BaseServings: s.BaseServings,
		Ingredients:  StringSlice(s.Lines),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	return recipe.Restore(recipe.Snapshot{
		ID:           model.ID,
		Version:      model.Version,
		Title:        model.Title,
		Description:  model.Description,
		BaseServings: model.BaseServings,
		Lines:        []string(model.Ingredients),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	})
}

func inventoryToModels(entries []pantry.InventoryEntry) []InventoryItemModel {
	models := make([]InventoryItemModel, len(entries))
	for i, e := range entries {
		models[i] = InventoryItemModel{
			ID:        e.ID,
			Position:  i,
			Name:      e.Name,
			Quantity:  e.Quantity,
			Unit:      e.Unit,
			ExpiresAt: e.ExpiresAt,
		}
	}
	return models
}

func shoppingListToModels(entries []pantry.ShoppingListEntry) []ShoppingListItemModel {
	models := make([]ShoppingListItemModel, len(entries))
	for i, e := range entries {
		models[i] = ShoppingListItemModel{
			ID:              e.ID,
			Position:        i,
			Name:            e.Name,
			Quantity:        e.Quantity,
			Unit:            e.Unit,
			TaggedRecipeIDs: UUIDSlice(e.TaggedRecipeIDs),
		}
	}
	return models
}

func modelsToPantry(state PantryStateModel, inventory []InventoryItemModel, list []ShoppingListItemModel) *pantry.Pantry {
	entries := make([]pantry.InventoryEntry, len(inventory))
	for i, m := range inventory {
		entries[i] = pantry.InventoryEntry{
			ID:        m.ID,
			Name:      m.Name,
			Quantity:  m.Quantity,
			Unit:      m.Unit,
			ExpiresAt: m.ExpiresAt,
		}
	}

	items := make([]pantry.ShoppingListEntry, len(list))
	for i, m := range list {
		items[i] = pantry.ShoppingListEntry{
			ID:              m.ID,
			Name:            m.Name,
			Quantity:        m.Quantity,
			Unit:            m.Unit,
			TaggedRecipeIDs: []uuid.UUID(m.TaggedRecipeIDs),
		}
	}

	return pantry.Restore(state.Generation, entries, items)
}
