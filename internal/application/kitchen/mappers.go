package kitchen

import (
	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
)

func recipeToDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	return &inbound.RecipeDTO{
		ID:           r.ID(),
		Title:        r.Title(),
		Description:  r.Description(),
		BaseServings: r.BaseServings(),
		Ingredients:  r.IngredientLines(),
		Version:      r.Version(),
		CreatedAt:    r.CreatedAt(),
		UpdatedAt:    r.UpdatedAt(),
	}
}

func quantityToDTO(q *ingredient.ParsedQuantity) *inbound.QuantityDTO {
	if q == nil {
		return nil
	}
	return &inbound.QuantityDTO{Value: q.Value, Text: q.Span, Unit: q.Unit}
}

func inventoryItemToDTO(e pantry.InventoryEntry) inbound.InventoryItemDTO {
	return inbound.InventoryItemDTO{
		ID:        e.ID,
		Name:      e.Name,
		Quantity:  e.Quantity,
		Unit:      e.Unit,
		ExpiresAt: e.ExpiresAt,
	}
}

func shoppingItemToDTO(e pantry.ShoppingListEntry) inbound.ShoppingListItemDTO {
	return inbound.ShoppingListItemDTO{
		ID:              e.ID,
		Name:            e.Name,
		Quantity:        e.Quantity,
		Unit:            e.Unit,
		TaggedRecipeIDs: e.TaggedRecipeIDs,
	}
}

func pantryToDTO(p *pantry.Pantry) *inbound.PantryDTO {
	dto := &inbound.PantryDTO{
		Generation:   p.Generation(),
		Inventory:    []inbound.InventoryItemDTO{},
		ShoppingList: []inbound.ShoppingListItemDTO{},
	}
	for _, e := range p.Inventory() {
		dto.Inventory = append(dto.Inventory, inventoryItemToDTO(e))
	}
	for _, e := range p.ShoppingList() {
		dto.ShoppingList = append(dto.ShoppingList, shoppingItemToDTO(e))
	}
	return dto
}

func inventoryCandidates(entries []pantry.InventoryEntry) []inbound.CandidateDTO {
	if len(entries) == 0 {
		return nil
	}
	out := make([]inbound.CandidateDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, inbound.CandidateDTO{
			ID:        e.ID,
			Name:      e.Name,
			Quantity:  e.Quantity,
			Unit:      e.Unit,
			ExpiresAt: e.ExpiresAt,
		})
	}
	return out
}

func shoppingCandidates(entries []pantry.ShoppingListEntry) []inbound.CandidateDTO {
	if len(entries) == 0 {
		return nil
	}
	out := make([]inbound.CandidateDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, inbound.CandidateDTO{
			ID:       e.ID,
			Name:     e.Name,
			Quantity: e.Quantity,
			Unit:     e.Unit,
		})
	}
	return out
}

func analysisItemToDTO(a ingredient.IngredientAnalysis) inbound.AnalysisItemDTO {
	dto := inbound.AnalysisItemDTO{
		Index:     a.Index,
		Original:  a.Original,
		Status:    a.Status.Kind.String(),
		Ambiguous: a.Status.Ambiguous(),
	}
	if a.Parsed != nil {
		dto.Name = a.Parsed.Name
		dto.Quantity = quantityToDTO(a.Parsed.Quantity)
	}

	switch a.Status.Kind {
	case ingredient.InInventory:
		available, sufficient := a.Status.Available, a.Status.Sufficient
		dto.Available = &available
		dto.Sufficient = &sufficient
		dto.Candidates = inventoryCandidates(a.Status.InventoryMatches)
	case ingredient.InShoppingList:
		dto.Candidates = shoppingCandidates(a.Status.ShoppingListMatches)
	}
	return dto
}

func reportToDTO(r ingredient.Report) *inbound.ReportDTO {
	items := make([]inbound.AnalysisItemDTO, len(r.Items))
	for i, item := range r.Items {
		items[i] = analysisItemToDTO(item)
	}
	return &inbound.ReportDTO{
		Items: items,
		Summary: inbound.SummaryDTO{
			Total:          r.Summary.Total,
			InInventory:    r.Summary.InInventory,
			Insufficient:   r.Summary.Insufficient,
			InShoppingList: r.Summary.InShoppingList,
			Missing:        r.Summary.Missing,
			Unparseable:    r.Summary.Unparseable,
		},
		Generation: r.Generation,
		AnalyzedAt: r.AnalyzedAt,
	}
}

func inventoryFromInput(in []inbound.InventoryItemInput) []pantry.InventoryEntry {
	out := make([]pantry.InventoryEntry, 0, len(in))
	for _, i := range in {
		out = append(out, pantry.InventoryEntry{
			ID:        i.ID,
			Name:      i.Name,
			Quantity:  i.Quantity,
			Unit:      i.Unit,
			ExpiresAt: i.ExpiresAt,
		})
	}
	return out
}

func shoppingListFromInput(in []inbound.ShoppingListItemInput) []pantry.ShoppingListEntry {
	out := make([]pantry.ShoppingListEntry, 0, len(in))
	for _, i := range in {
		out = append(out, pantry.ShoppingListEntry{
			ID:              i.ID,
			Name:            i.Name,
			Quantity:        i.Quantity,
			Unit:            i.Unit,
			TaggedRecipeIDs: i.TaggedRecipeIDs,
		})
	}
	return out
}

func matchToDTO[E ingredient.Item](r ingredient.MatchResult[E], candidates func([]E) []inbound.CandidateDTO) inbound.MatchDTO {
	return inbound.MatchDTO{
		Kind:       r.Kind.String(),
		Candidates: candidates(r.Candidates),
	}
}

func skippedLine(a ingredient.IngredientAnalysis, reason string) inbound.SkippedLineDTO {
	skipped := inbound.SkippedLineDTO{
		Index:    a.Index,
		Original: a.Original,
		Reason:   reason,
	}
	if a.Status.Ambiguous() {
		skipped.Candidates = inventoryCandidates(a.Status.InventoryMatches)
	}
	return skipped
}
