package recipe

import "github.com/google/uuid"

// ScaledRecipe is a read-only view of a recipe's ingredients for a serving
// count other than the base one. It is never stored; scale again from the
// recipe instead of from these lines.
type ScaledRecipe struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Servings float64   `json:"servings"`
	Lines    []string  `json:"lines"`
}
