// Package pantry models the household's inventory and shopping list.
// Both collections live in one aggregate so that every change advances a
// single generation counter that analyses can be checked against.
package pantry

import (
	"slices"
	"strings"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pantry is the aggregate root for inventory and shopping list entries.
// Entries whose quantity reaches zero are deleted, never stored.
type Pantry struct {
	shared.AggregateRoot

	inventory    []InventoryEntry
	shoppingList []ShoppingListEntry
}

// New creates an empty pantry
func New() *Pantry {
	return &Pantry{}
}

// Restore rehydrates a pantry from storage without raising events.
func Restore(generation uint64, inventory []InventoryEntry, shoppingList []ShoppingListEntry) *Pantry {
	p := &Pantry{}
	p.RestoreGeneration(generation)
	for _, e := range inventory {
		p.inventory = append(p.inventory, e.clone())
	}
	for _, e := range shoppingList {
		p.shoppingList = append(p.shoppingList, e.clone())
	}
	return p
}

// Inventory returns a copy of the inventory entries in insertion order
func (p *Pantry) Inventory() []InventoryEntry {
	out := make([]InventoryEntry, 0, len(p.inventory))
	for _, e := range p.inventory {
		out = append(out, e.clone())
	}
	return out
}

// ShoppingList returns a copy of the shopping list entries in insertion order
func (p *Pantry) ShoppingList() []ShoppingListEntry {
	out := make([]ShoppingListEntry, 0, len(p.shoppingList))
	for _, e := range p.shoppingList {
		out = append(out, e.clone())
	}
	return out
}

// Snapshot freezes the current state for one analysis pass.
func (p *Pantry) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Generation:   p.Generation(),
		TakenAt:      now,
		Inventory:    p.Inventory(),
		ShoppingList: p.ShoppingList(),
	}
}

// Stock adds an item to the inventory. A nil ID is replaced with a new one.
func (p *Pantry) Stock(entry InventoryEntry) (InventoryEntry, error) {
	if err := entry.Validate(); err != nil {
		return InventoryEntry{}, err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	} else if p.inventoryIndex(entry.ID) >= 0 {
		return InventoryEntry{}, ErrDuplicateItem
	}

	entry = entry.clone()
	p.inventory = append(p.inventory, entry)

	p.Record(ItemStockedEvent{
		ItemID:    entry.ID,
		Name:      entry.Name,
		Quantity:  entry.Quantity,
		StockedAt: time.Now(),
	})

	return entry.clone(), nil
}

// Consume subtracts amount from an inventory item and returns what is left.
// An item that reaches zero is removed from the inventory.
func (p *Pantry) Consume(id uuid.UUID, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidConsumeQty
	}

	i := p.inventoryIndex(id)
	if i < 0 {
		return 0, ErrItemNotFound
	}

	left := decimal.NewFromFloat(p.inventory[i].Quantity).Sub(decimal.NewFromFloat(amount))
	remaining := 0.0
	if left.IsPositive() {
		remaining = left.InexactFloat64()
	}

	now := time.Now()
	p.Record(ItemConsumedEvent{
		ItemID:     id,
		Amount:     amount,
		Remaining:  remaining,
		ConsumedAt: now,
	})

	if remaining == 0 {
		p.inventory = slices.Delete(p.inventory, i, i+1)
		p.Record(ItemRemovedEvent{ItemID: id, RemovedAt: now})
		return 0, nil
	}

	p.inventory[i].Quantity = remaining
	return remaining, nil
}

// RemoveInventoryItem deletes an item from the inventory
func (p *Pantry) RemoveInventoryItem(id uuid.UUID) error {
	i := p.inventoryIndex(id)
	if i < 0 {
		return ErrItemNotFound
	}

	p.inventory = slices.Delete(p.inventory, i, i+1)
	p.Record(ItemRemovedEvent{ItemID: id, RemovedAt: time.Now()})
	return nil
}

// AddToShoppingList lists an item, tagging it with recipeID when one is given.
// An existing entry with the same name and unit absorbs the quantity instead
// of producing a duplicate line.
func (p *Pantry) AddToShoppingList(entry ShoppingListEntry, recipeID uuid.UUID) (ShoppingListEntry, error) {
	if err := entry.Validate(); err != nil {
		return ShoppingListEntry{}, err
	}

	var listed *ShoppingListEntry
	for i := range p.shoppingList {
		existing := &p.shoppingList[i]
		if sameItem(existing.Name, entry.Name) && strings.EqualFold(existing.Unit, entry.Unit) {
			existing.Quantity = decimal.NewFromFloat(existing.Quantity).Add(decimal.NewFromFloat(entry.Quantity)).InexactFloat64()
			for _, id := range entry.TaggedRecipeIDs {
				existing.tag(id)
			}
			listed = existing
			break
		}
	}

	if listed == nil {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		} else if p.shoppingIndex(entry.ID) >= 0 {
			return ShoppingListEntry{}, ErrDuplicateItem
		}
		entry = entry.clone()
		p.shoppingList = append(p.shoppingList, entry)
		listed = &p.shoppingList[len(p.shoppingList)-1]
	}
	listed.tag(recipeID)

	p.Record(ItemListedEvent{
		ItemID:   listed.ID,
		Name:     listed.Name,
		Quantity: entry.Quantity,
		RecipeID: recipeID,
		ListedAt: time.Now(),
	})

	return listed.clone(), nil
}

// RemoveFromShoppingList deletes an item from the shopping list
func (p *Pantry) RemoveFromShoppingList(id uuid.UUID) error {
	i := p.shoppingIndex(id)
	if i < 0 {
		return ErrItemNotFound
	}

	p.shoppingList = slices.Delete(p.shoppingList, i, i+1)
	p.Record(ItemUnlistedEvent{ItemID: id, UnlistedAt: time.Now()})
	return nil
}

// FindInventoryItem returns a copy of the inventory item with the given ID
func (p *Pantry) FindInventoryItem(id uuid.UUID) (InventoryEntry, bool) {
	i := p.inventoryIndex(id)
	if i < 0 {
		return InventoryEntry{}, false
	}
	return p.inventory[i].clone(), true
}

func (p *Pantry) inventoryIndex(id uuid.UUID) int {
	return slices.IndexFunc(p.inventory, func(e InventoryEntry) bool { return e.ID == id })
}

func (p *Pantry) shoppingIndex(id uuid.UUID) int {
	return slices.IndexFunc(p.shoppingList, func(e ShoppingListEntry) bool { return e.ID == id })
}

func sameItem(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
