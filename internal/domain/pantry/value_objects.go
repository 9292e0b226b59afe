package pantry

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InventoryEntry is one item the household has on hand.
type InventoryEntry struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Validate validates the inventory entry
func (e InventoryEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrItemNameRequired
	}
	if e.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if e.Quantity == 0 {
		return ErrZeroQuantity
	}
	return nil
}

// ExpiresWithin reports whether the entry expires before now+window.
// Entries without an expiration date never do.
func (e InventoryEntry) ExpiresWithin(now time.Time, window time.Duration) bool {
	if e.ExpiresAt == nil {
		return false
	}
	return e.ExpiresAt.Before(now.Add(window))
}

// ItemName returns the free-text name used for matching.
func (e InventoryEntry) ItemName() string { return e.Name }

// ItemQuantity returns the stored quantity.
func (e InventoryEntry) ItemQuantity() float64 { return e.Quantity }

func (e InventoryEntry) clone() InventoryEntry {
	if e.ExpiresAt != nil {
		t := *e.ExpiresAt
		e.ExpiresAt = &t
	}
	return e
}

// ShoppingListEntry is one item the household plans to buy.
type ShoppingListEntry struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Quantity        float64     `json:"quantity"`
	Unit            string      `json:"unit,omitempty"`
	TaggedRecipeIDs []uuid.UUID `json:"tagged_recipe_ids,omitempty"`
}

// Validate validates the shopping list entry
func (e ShoppingListEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrItemNameRequired
	}
	if e.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if e.Quantity == 0 {
		return ErrZeroQuantity
	}
	return nil
}

// TaggedWith reports whether the entry was added for the given recipe.
func (e ShoppingListEntry) TaggedWith(recipeID uuid.UUID) bool {
	return slices.Contains(e.TaggedRecipeIDs, recipeID)
}

// ItemName returns the free-text name used for matching.
func (e ShoppingListEntry) ItemName() string { return e.Name }

// ItemQuantity returns the stored quantity.
func (e ShoppingListEntry) ItemQuantity() float64 { return e.Quantity }

func (e *ShoppingListEntry) tag(recipeID uuid.UUID) {
	if recipeID == uuid.Nil || e.TaggedWith(recipeID) {
		return
	}
	e.TaggedRecipeIDs = append(e.TaggedRecipeIDs, recipeID)
}

func (e ShoppingListEntry) clone() ShoppingListEntry {
	e.TaggedRecipeIDs = slices.Clone(e.TaggedRecipeIDs)
	return e
}

// Snapshot is a frozen copy of the pantry taken for one analysis pass.
type Snapshot struct {
	Generation   uint64              `json:"generation"`
	TakenAt      time.Time           `json:"taken_at"`
	Inventory    []InventoryEntry    `json:"inventory"`
	ShoppingList []ShoppingListEntry `json:"shopping_list"`
}

// StaleAgainst reports whether the pantry has changed since the snapshot was
// taken, given the pantry's current generation.
func (s Snapshot) StaleAgainst(current uint64) bool {
	return s.Generation != current
}
