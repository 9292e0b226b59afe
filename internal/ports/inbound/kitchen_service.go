// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// KitchenService defines the use cases built on the ingredient text engine.
// HTTP handlers and other driving adapters use this port.
type KitchenService interface {
	// Stateless engine operations
	ParseLine(ctx context.Context, cmd ParseLineCommand) (*ParsedLineDTO, error)
	ScaleLines(ctx context.Context, cmd ScaleCommand) (*ScaledLinesDTO, error)
	AnalyzeLines(ctx context.Context, cmd AnalyzeLinesCommand) (*ReportDTO, error)

	// Recipes
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, params PaginationParams) (*RecipeList, error)
	ScaleRecipe(ctx context.Context, recipeID uuid.UUID, servings float64) (*ScaledLinesDTO, error)

	// Recipe against pantry. A servings value of 0 means the recipe's base servings.
	AnalyzeRecipe(ctx context.Context, recipeID uuid.UUID, servings float64) (*ReportDTO, error)
	AddMissingToShoppingList(ctx context.Context, recipeID uuid.UUID, servings float64) (*BulkResultDTO, error)
	CookRecipe(ctx context.Context, recipeID uuid.UUID, servings float64) (*BulkResultDTO, error)
	SuggestByExpiration(ctx context.Context, query SuggestionQuery) ([]SuggestionDTO, error)

	// Captured text (receipt photos, voice commands) against pantry
	ResolveItem(ctx context.Context, cmd ResolveItemCommand) (*ResolutionDTO, error)

	// Pantry
	GetPantry(ctx context.Context) (*PantryDTO, error)
	StockItem(ctx context.Context, cmd StockItemCommand) (*InventoryItemDTO, error)
	RemoveInventoryItem(ctx context.Context, itemID uuid.UUID) error
	ListItem(ctx context.Context, cmd ListItemCommand) (*ShoppingListItemDTO, error)
	RemoveShoppingListItem(ctx context.Context, itemID uuid.UUID) error
}

// Command objects for operations

// ParseLineCommand asks for the name and quantity in one line of text
type ParseLineCommand struct {
	Text string `json:"text" validate:"max=500"`
}

// ScaleCommand rescales free ingredient lines. Serving counts are checked by
// the engine so that bad values surface as invalid arguments.
type ScaleCommand struct {
	Lines            []string `json:"lines" validate:"required,min=1,max=200,dive,max=500"`
	OriginalServings float64  `json:"original_servings"`
	NewServings      float64  `json:"new_servings"`
}

// AnalyzeLinesCommand analyzes lines against caller supplied snapshots
type AnalyzeLinesCommand struct {
	Lines        []string                `json:"lines" validate:"required,min=1,max=200,dive,max=500"`
	Inventory    []InventoryItemInput    `json:"inventory" validate:"max=1000,dive"`
	ShoppingList []ShoppingListItemInput `json:"shopping_list" validate:"max=1000,dive"`
}

// InventoryItemInput is one inventory entry of a caller supplied snapshot
type InventoryItemInput struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name" validate:"required,max=200"`
	Quantity  float64    `json:"quantity" validate:"gte=0"`
	Unit      string     `json:"unit" validate:"max=50"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ShoppingListItemInput is one shopping list entry of a caller supplied snapshot
type ShoppingListItemInput struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name" validate:"required,max=200"`
	Quantity        float64     `json:"quantity" validate:"gte=0"`
	Unit            string      `json:"unit" validate:"max=50"`
	TaggedRecipeIDs []uuid.UUID `json:"tagged_recipe_ids"`
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	BaseServings float64  `json:"base_servings" validate:"gt=0,lte=1000"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,max=200,dive,max=500"`
}

// ResolveItemCommand matches captured text against the pantry
type ResolveItemCommand struct {
	Text   string `json:"text" validate:"required,max=500"`
	Source string `json:"source" validate:"omitempty,oneof=receipt voice manual"`
}

// StockItemCommand adds an item to the inventory
type StockItemCommand struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Quantity  float64    `json:"quantity" validate:"gt=0"`
	Unit      string     `json:"unit" validate:"max=50"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ListItemCommand adds an item to the shopping list
type ListItemCommand struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Quantity float64    `json:"quantity" validate:"gt=0"`
	Unit     string     `json:"unit" validate:"max=50"`
	RecipeID *uuid.UUID `json:"recipe_id"`
}

// Query objects

// PaginationParams defines pagination parameters
type PaginationParams struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=100"`
}

// SuggestionQuery selects recipes that use soon-to-expire inventory
type SuggestionQuery struct {
	Within time.Duration `json:"within" validate:"gt=0"`
	Limit  int           `json:"limit" validate:"gte=0,lte=50"`
}

// DTOs for data transfer

// QuantityDTO is a parsed quantity
type QuantityDTO struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
	Unit  string  `json:"unit,omitempty"`
}

// ParsedLineDTO is what the engine extracted from a line
type ParsedLineDTO struct {
	Original string       `json:"original"`
	Name     string       `json:"name"`
	Quantity *QuantityDTO `json:"quantity,omitempty"`
}

// ScaledLinesDTO is a set of rescaled lines
type ScaledLinesDTO struct {
	RecipeID         *uuid.UUID `json:"recipe_id,omitempty"`
	OriginalServings float64    `json:"original_servings"`
	Servings         float64    `json:"servings"`
	Lines            []string   `json:"lines"`
}

// CandidateDTO is one pantry entry that matched a name
type CandidateDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// AnalysisItemDTO is the status of one ingredient line
type AnalysisItemDTO struct {
	Index      int            `json:"index"`
	Original   string         `json:"original"`
	Name       string         `json:"name,omitempty"`
	Quantity   *QuantityDTO   `json:"quantity,omitempty"`
	Status     string         `json:"status"`
	Available  *float64       `json:"available,omitempty"`
	Sufficient *bool          `json:"sufficient,omitempty"`
	Ambiguous  bool           `json:"ambiguous"`
	Candidates []CandidateDTO `json:"candidates,omitempty"`
}

// SummaryDTO counts analysis items per status
type SummaryDTO struct {
	Total          int `json:"total"`
	InInventory    int `json:"in_inventory"`
	Insufficient   int `json:"insufficient"`
	InShoppingList int `json:"in_shopping_list"`
	Missing        int `json:"missing"`
	Unparseable    int `json:"unparseable"`
}

// ReportDTO is an analysis of a list of lines against one pantry snapshot.
// Generation identifies the snapshot; a newer pantry generation means the
// report is stale.
type ReportDTO struct {
	RecipeID   *uuid.UUID        `json:"recipe_id,omitempty"`
	Servings   float64           `json:"servings,omitempty"`
	Items      []AnalysisItemDTO `json:"items"`
	Summary    SummaryDTO        `json:"summary"`
	Generation uint64            `json:"generation"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

// SkippedLineDTO is a line a bulk write left for the user to decide
type SkippedLineDTO struct {
	Index      int            `json:"index"`
	Original   string         `json:"original"`
	Reason     string         `json:"reason"`
	Candidates []CandidateDTO `json:"candidates,omitempty"`
}

// ConsumptionDTO records one inventory decrement
type ConsumptionDTO struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Remaining float64   `json:"remaining"`
}

// BulkResultDTO is the outcome of a bulk pantry write driven by an analysis
type BulkResultDTO struct {
	RecipeID   uuid.UUID             `json:"recipe_id"`
	Servings   float64               `json:"servings"`
	Listed     []ShoppingListItemDTO `json:"listed,omitempty"`
	Consumed   []ConsumptionDTO      `json:"consumed,omitempty"`
	Skipped    []SkippedLineDTO      `json:"skipped,omitempty"`
	Generation uint64                `json:"generation"`
}

// MatchDTO is a tagged match result: no_match, unique or ambiguous
type MatchDTO struct {
	Kind       string         `json:"kind"`
	Candidates []CandidateDTO `json:"candidates,omitempty"`
}

// ResolutionDTO is how captured text maps onto the pantry
type ResolutionDTO struct {
	Text         string       `json:"text"`
	Source       string       `json:"source,omitempty"`
	Name         string       `json:"name"`
	Quantity     *QuantityDTO `json:"quantity,omitempty"`
	Inventory    MatchDTO     `json:"inventory"`
	ShoppingList MatchDTO     `json:"shopping_list"`
	Generation   uint64       `json:"generation"`
}

// SuggestionDTO is a recipe that uses inventory about to expire
type SuggestionDTO struct {
	RecipeID      uuid.UUID `json:"recipe_id"`
	Title         string    `json:"title"`
	ExpiringItems []string  `json:"expiring_items"`
	InInventory   int       `json:"in_inventory"`
	Total         int       `json:"total"`
	Score         float64   `json:"score"`
}

// RecipeDTO represents recipe data for transfer
type RecipeDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	BaseServings float64   `json:"base_servings"`
	Ingredients  []string  `json:"ingredients"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecipeList is a paginated list of recipes
type RecipeList struct {
	Recipes []*RecipeDTO `json:"recipes"`
	Total   int          `json:"total"`
	Offset  int          `json:"offset"`
	Limit   int          `json:"limit"`
}

// InventoryItemDTO is one inventory entry
type InventoryItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ShoppingListItemDTO is one shopping list entry
type ShoppingListItemDTO struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Quantity        float64     `json:"quantity"`
	Unit            string      `json:"unit,omitempty"`
	TaggedRecipeIDs []uuid.UUID `json:"tagged_recipe_ids,omitempty"`
}

// PantryDTO is the full pantry at one generation
type PantryDTO struct {
	Generation   uint64                `json:"generation"`
	Inventory    []InventoryItemDTO    `json:"inventory"`
	ShoppingList []ShoppingListItemDTO `json:"shopping_list"`
}
