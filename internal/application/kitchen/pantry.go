package kitchen

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
)

// GetPantry returns the inventory and shopping list at the current generation
func (s *KitchenService) GetPantry(ctx context.Context) (*inbound.PantryDTO, error) {
	p, err := s.loadPantry(ctx)
	if err != nil {
		return nil, err
	}
	return pantryToDTO(p), nil
}

// StockItem adds an item to the inventory
func (s *KitchenService) StockItem(ctx context.Context, cmd inbound.StockItemCommand) (*inbound.InventoryItemDTO, error) {
	if err := s.validateStruct(cmd); err != nil {
		return nil, err
	}

	var stocked pantry.InventoryEntry
	p, err := s.pantries.Update(ctx, func(p *pantry.Pantry) error {
		var err error
		stocked, err = p.Stock(pantry.InventoryEntry{
			Name:      strings.TrimSpace(cmd.Name),
			Quantity:  cmd.Quantity,
			Unit:      strings.TrimSpace(cmd.Unit),
			ExpiresAt: cmd.ExpiresAt,
		})
		return err
	})
	if err != nil {
		return nil, s.pantryError("stock item", err)
	}
	s.publish(ctx, p.Events()...)

	s.logger.Info("Item stocked",
		zap.String("item_id", stocked.ID.String()),
		zap.String("name", stocked.Name),
		zap.Uint64("generation", p.Generation()),
	)

	dto := inventoryItemToDTO(stocked)
	return &dto, nil
}

// RemoveInventoryItem deletes an item from the inventory
func (s *KitchenService) RemoveInventoryItem(ctx context.Context, itemID uuid.UUID) error {
	p, err := s.pantries.Update(ctx, func(p *pantry.Pantry) error {
		return p.RemoveInventoryItem(itemID)
	})
	if err != nil {
		return s.itemError("remove inventory item", itemID, err)
	}
	s.publish(ctx, p.Events()...)
	return nil
}

// ListItem adds an item to the shopping list, merging with an existing entry
// of the same name and unit
func (s *KitchenService) ListItem(ctx context.Context, cmd inbound.ListItemCommand) (*inbound.ShoppingListItemDTO, error) {
	if err := s.validateStruct(cmd); err != nil {
		return nil, err
	}

	recipeID := uuid.Nil
	if cmd.RecipeID != nil {
		if _, err := s.findRecipe(ctx, *cmd.RecipeID); err != nil {
			return nil, err
		}
		recipeID = *cmd.RecipeID
	}

	var listed pantry.ShoppingListEntry
	p, err := s.pantries.Update(ctx, func(p *pantry.Pantry) error {
		var err error
		listed, err = p.AddToShoppingList(pantry.ShoppingListEntry{
			Name:     strings.TrimSpace(cmd.Name),
			Quantity: cmd.Quantity,
			Unit:     strings.TrimSpace(cmd.Unit),
		}, recipeID)
		return err
	})
	if err != nil {
		return nil, s.pantryError("list item", err)
	}
	s.publish(ctx, p.Events()...)

	dto := shoppingItemToDTO(listed)
	return &dto, nil
}

// RemoveShoppingListItem deletes an item from the shopping list
func (s *KitchenService) RemoveShoppingListItem(ctx context.Context, itemID uuid.UUID) error {
	p, err := s.pantries.Update(ctx, func(p *pantry.Pantry) error {
		return p.RemoveFromShoppingList(itemID)
	})
	if err != nil {
		return s.itemError("remove shopping list item", itemID, err)
	}
	s.publish(ctx, p.Events()...)
	return nil
}

// ResolveItem matches text captured from a receipt photo or a voice command
// against the pantry. Ambiguous matches are returned with every candidate;
// the caller picks one.
func (s *KitchenService) ResolveItem(ctx context.Context, cmd inbound.ResolveItemCommand) (*inbound.ResolutionDTO, error) {
	ctx, span := s.startSpan(ctx, "ResolveItem", attribute.String("source", cmd.Source))
	defer span.End()

	if err := s.validateStruct(cmd); err != nil {
		return nil, s.fail(span, err)
	}

	p, err := s.loadPantry(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	snap := p.Snapshot(s.now())

	name := ingredient.Normalize(cmd.Text)
	dto := &inbound.ResolutionDTO{
		Text:         cmd.Text,
		Source:       cmd.Source,
		Name:         name,
		Inventory:    matchToDTO(ingredient.MatchInventory(name, snap.Inventory), inventoryCandidates),
		ShoppingList: matchToDTO(ingredient.MatchShoppingList(name, snap.ShoppingList), shoppingCandidates),
		Generation:   snap.Generation,
	}
	if pq, ok := ingredient.ParseQuantity(cmd.Text); ok {
		dto.Quantity = quantityToDTO(&pq)
	}

	s.logger.Debug("Item resolved",
		zap.String("name", name),
		zap.String("inventory_match", dto.Inventory.Kind),
		zap.String("shopping_list_match", dto.ShoppingList.Kind),
	)
	return dto, nil
}

// pantryError maps errors from PantryRepository.Update, which returns the
// domain error of the mutation unchanged.
// itemError reports a missing item under its ID
func (s *KitchenService) itemError(operation string, itemID uuid.UUID, err error) error {
	if stderrors.Is(err, pantry.ErrItemNotFound) {
		return errors.NewItemNotFoundError(itemID.String()).WithCause(err)
	}
	return s.pantryError(operation, err)
}

func (s *KitchenService) pantryError(operation string, err error) error {
	if mapped := domainError(err); mapped != nil {
		return mapped
	}
	return repositoryError(operation, err)
}
