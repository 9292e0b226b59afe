package pantry

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the pantry domain

// ItemStockedEvent is raised when an item is added to the inventory
type ItemStockedEvent struct {
	ItemID    uuid.UUID
	Name      string
	Quantity  float64
	StockedAt time.Time
}

func (e ItemStockedEvent) EventName() string {
	return "pantry.inventory.stocked"
}

func (e ItemStockedEvent) OccurredAt() time.Time {
	return e.StockedAt
}

// ItemConsumedEvent is raised when part of an inventory item is used up
type ItemConsumedEvent struct {
	ItemID     uuid.UUID
	Amount     float64
	Remaining  float64
	ConsumedAt time.Time
}

func (e ItemConsumedEvent) EventName() string {
	return "pantry.inventory.consumed"
}

func (e ItemConsumedEvent) OccurredAt() time.Time {
	return e.ConsumedAt
}

// ItemRemovedEvent is raised when an inventory item is deleted
type ItemRemovedEvent struct {
	ItemID    uuid.UUID
	RemovedAt time.Time
}

func (e ItemRemovedEvent) EventName() string {
	return "pantry.inventory.removed"
}

func (e ItemRemovedEvent) OccurredAt() time.Time {
	return e.RemovedAt
}

// ItemListedEvent is raised when an item is added to, or merged into, the shopping list
type ItemListedEvent struct {
	ItemID   uuid.UUID
	Name     string
	Quantity float64
	RecipeID uuid.UUID
	ListedAt time.Time
}

func (e ItemListedEvent) EventName() string {
	return "pantry.shopping_list.listed"
}

func (e ItemListedEvent) OccurredAt() time.Time {
	return e.ListedAt
}

// ItemUnlistedEvent is raised when an item is removed from the shopping list
type ItemUnlistedEvent struct {
	ItemID     uuid.UUID
	UnlistedAt time.Time
}

func (e ItemUnlistedEvent) EventName() string {
	return "pantry.shopping_list.unlisted"
}

func (e ItemUnlistedEvent) OccurredAt() time.Time {
	return e.UnlistedAt
}
