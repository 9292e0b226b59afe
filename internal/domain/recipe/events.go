package recipe

import (
	"time"

	"github.com/google/uuid"
)

// RecipeCreatedEvent is raised when a new recipe is created
type RecipeCreatedEvent struct {
	RecipeID     uuid.UUID
	Title        string
	BaseServings float64
	CreatedAt    time.Time
}

func (e RecipeCreatedEvent) EventName() string {
	return "recipe.created"
}

func (e RecipeCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// RecipeTitleUpdatedEvent is raised when a recipe title is updated
type RecipeTitleUpdatedEvent struct {
	RecipeID  uuid.UUID
	OldTitle  string
	NewTitle  string
	UpdatedAt time.Time
}

func (e RecipeTitleUpdatedEvent) EventName() string {
	return "recipe.title.updated"
}

func (e RecipeTitleUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// IngredientsReplacedEvent is raised when the base ingredient text changes
type IngredientsReplacedEvent struct {
	RecipeID     uuid.UUID
	BaseServings float64
	LineCount    int
	ReplacedAt   time.Time
}

func (e IngredientsReplacedEvent) EventName() string {
	return "recipe.ingredients.replaced"
}

func (e IngredientsReplacedEvent) OccurredAt() time.Time {
	return e.ReplacedAt
}
