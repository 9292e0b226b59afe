package kitchen

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
)

const suggestionScanPage = 100

// SuggestByExpiration ranks recipes by how many soon-to-expire inventory
// items they use. Ties go to the recipe covering more of its lines from the
// inventory, then to the title.
func (s *KitchenService) SuggestByExpiration(ctx context.Context, query inbound.SuggestionQuery) ([]inbound.SuggestionDTO, error) {
	ctx, span := s.startSpan(ctx, "SuggestByExpiration", attribute.String("within", query.Within.String()))
	defer span.End()

	if err := s.validateStruct(query); err != nil {
		return nil, s.fail(span, err)
	}
	if query.Limit == 0 {
		query.Limit = defaultSuggestionSize
	}

	p, err := s.loadPantry(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	snap := p.Snapshot(s.now())

	var expiring []pantry.InventoryEntry
	for _, e := range snap.Inventory {
		if e.ExpiresWithin(snap.TakenAt, query.Within) {
			expiring = append(expiring, e)
		}
	}
	if len(expiring) == 0 {
		return []inbound.SuggestionDTO{}, nil
	}

	suggestions := []inbound.SuggestionDTO{}
	for offset := 0; ; offset += suggestionScanPage {
		page, total, err := s.recipes.List(ctx, offset, suggestionScanPage)
		if err != nil {
			return nil, s.fail(span, repositoryError("list recipes", err))
		}

		for _, r := range page {
			items := ingredient.Analyze(r.IngredientLines(), snap.Inventory, snap.ShoppingList)
			used := expiringUsed(items, expiring)
			if len(used) == 0 {
				continue
			}

			summary := ingredient.Summarize(items)
			suggestions = append(suggestions, inbound.SuggestionDTO{
				RecipeID:      r.ID(),
				Title:         r.Title(),
				ExpiringItems: used,
				InInventory:   summary.InInventory,
				Total:         summary.Total,
				Score:         float64(len(used)) + float64(summary.InInventory)/float64(summary.Total),
			})
		}

		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Title < suggestions[j].Title
	})
	if len(suggestions) > query.Limit {
		suggestions = suggestions[:query.Limit]
	}

	s.logger.Debug("Expiration suggestions computed",
		zap.Int("expiring_items", len(expiring)),
		zap.Int("suggestions", len(suggestions)),
	)
	return suggestions, nil
}

// expiringUsed returns the names of expiring entries that any line matched,
// each named once, in inventory order.
func expiringUsed(items []ingredient.IngredientAnalysis, expiring []pantry.InventoryEntry) []string {
	matched := make(map[string]bool)
	for _, item := range items {
		for _, c := range item.Status.InventoryMatches {
			matched[c.ID.String()] = true
		}
	}

	var used []string
	for _, e := range expiring {
		if matched[e.ID.String()] {
			used = append(used, e.Name)
		}
	}
	return used
}
