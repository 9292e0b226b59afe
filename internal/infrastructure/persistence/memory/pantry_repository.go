package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// PantryRepository keeps the pantry's state in memory. Every Load and Update
// works on a restored copy.
type PantryRepository struct {
	generation   uint64
	inventory    []pantry.InventoryEntry
	shoppingList []pantry.ShoppingListEntry
	mutex        sync.RWMutex
}

// NewPantryRepository creates an empty pantry store
func NewPantryRepository() *PantryRepository {
	return &PantryRepository{}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Load returns a copy of the current pantry
func (r *PantryRepository) Load(ctx context.Context) (*pantry.Pantry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.restore(), nil
}

// Update applies fn to a copy and stores it when fn succeeds
func (r *PantryRepository) Update(ctx context.Context, fn func(p *pantry.Pantry) error) (*pantry.Pantry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	p := r.restore()
	if err := fn(p); err != nil {
		return nil, err
	}

	r.generation = p.Generation()
	r.inventory = p.Inventory()
	r.shoppingList = p.ShoppingList()
	return p, nil
}

func (r *PantryRepository) restore() *pantry.Pantry {
	return pantry.Restore(r.generation, r.inventory, r.shoppingList)
}
