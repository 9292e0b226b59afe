package gorm

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// PantryRepository stores the pantry in three tables: a single state row
// holding the generation, and one row per inventory and shopping list entry.
type PantryRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) *PantryRepository {
	return &PantryRepository{db: db}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Load returns the current pantry
func (r *PantryRepository) Load(ctx context.Context) (*pantry.Pantry, error) {
	return load(r.db.WithContext(ctx), false)
}

// Update applies fn inside a transaction. The state row is locked for the
// duration on databases that support row locks; the mutex covers the rest.
func (r *PantryRepository) Update(ctx context.Context, fn func(p *pantry.Pantry) error) (*pantry.Pantry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated *pantry.Pantry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := load(tx, true)
		if err != nil {
			return err
		}

		before := p.Generation()
		if err := fn(p); err != nil {
			return err
		}
		updated = p

		if p.Generation() == before {
			return nil
		}
		return save(tx, p)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func load(db *gorm.DB, lock bool) (*pantry.Pantry, error) {
	var state PantryStateModel

	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&state, "id = ?", pantryStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pantry.New(), nil
	}
	if err != nil {
		return nil, err
	}

	var inventory []InventoryItemModel
	if err := db.Order("position").Find(&inventory).Error; err != nil {
		return nil, err
	}

	var list []ShoppingListItemModel
	if err := db.Order("position").Find(&list).Error; err != nil {
		return nil, err
	}

	return modelsToPantry(state, inventory, list), nil
}

func save(tx *gorm.DB, p *pantry.Pantry) error {
	state := PantryStateModel{ID: pantryStateID, Generation: p.Generation()}
	if err := tx.Save(&state).Error; err != nil {
		return err
	}

	if err := tx.Where("1 = 1").Delete(&InventoryItemModel{}).Error; err != nil {
		return err
	}
	if inventory := inventoryToModels(p.Inventory()); len(inventory) > 0 {
		if err := tx.Create(&inventory).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("1 = 1").Delete(&ShoppingListItemModel{}).Error; err != nil {
		return err
	}
	if list := shoppingListToModels(p.ShoppingList()); len(list) > 0 {
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
	}

	return nil
}
