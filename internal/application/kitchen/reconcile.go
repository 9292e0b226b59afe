package kitchen

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// Reasons a bulk write leaves a line alone
const (
	reasonAmbiguous    = "ambiguous inventory match"
	reasonNoQuantity   = "no quantity to consume"
	reasonUnitMismatch = "unit differs from inventory"
)

// AnalyzeRecipe reconciles a recipe, scaled to servings, with the current
// pantry. Reports are cached per pantry generation, so a cached report is
// never older than the pantry it describes.
func (s *KitchenService) AnalyzeRecipe(ctx context.Context, recipeID uuid.UUID, servings float64) (*inbound.ReportDTO, error) {
	ctx, span := s.startSpan(ctx, "AnalyzeRecipe",
		attribute.String("recipe.id", recipeID.String()),
		attribute.Float64("servings", servings),
	)
	defer span.End()

	r, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	scaled, err := s.scaleRecipe(r, servings)
	if err != nil {
		return nil, s.fail(span, err)
	}
	p, err := s.loadPantry(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	snap := p.Snapshot(s.now())

	key := analysisCacheKey(r, scaled.Servings, snap.Generation)
	if cached, ok := s.cachedReport(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	start := time.Now()
	report := ingredient.AnalyzeSnapshot(scaled.Lines, snap)
	s.metrics.RecordAnalysis("recipe", report.Summary, time.Since(start))

	dto := reportToDTO(report)
	dto.RecipeID = &recipeID
	dto.Servings = scaled.Servings
	s.storeReport(ctx, key, dto)

	s.logger.Debug("Recipe analyzed",
		zap.String("recipe_id", recipeID.String()),
		zap.Float64("servings", scaled.Servings),
		zap.Uint64("generation", snap.Generation),
		zap.Int("missing", report.Summary.Missing),
	)
	return dto, nil
}

// AddMissingToShoppingList lists every Missing ingredient and the shortfall of
// every insufficient one, tagged with the recipe. Ambiguous inventory matches
// are reported back instead of guessed.
func (s *KitchenService) AddMissingToShoppingList(ctx context.Context, recipeID uuid.UUID, servings float64) (*inbound.BulkResultDTO, error) {
	ctx, span := s.startSpan(ctx, "AddMissingToShoppingList", attribute.String("recipe.id", recipeID.String()))
	defer span.End()

	r, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	scaled, err := s.scaleRecipe(r, servings)
	if err != nil {
		return nil, s.fail(span, err)
	}

	var result *inbound.BulkResultDTO
	p, err := s.pantries.Update(ctx, func(p *pantry.Pantry) error {
		result = &inbound.BulkResultDTO{RecipeID: recipeID, Servings: scaled.Servings}
		report := ingredient.AnalyzeSnapshot(scaled.Lines, p.Snapshot(s.now()))

		for _, item := range report.Items {
			entry, reason, ok := shoppingNeed(item, p.ShoppingList())
			if !ok {
				if reason != "" {
					result.Skipped = append(result.Skipped, skippedLine(item, reason))
				}
				continue
			}

			listed, err := p.AddToShoppingList(entry, recipeID)
			if err != nil {
				result.Skipped = append(result.Skipped, skippedLine(item, err.Error()))
				continue
			}
			result.Listed = append(result.Listed, shoppingItemToDTO(listed))
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, s.pantryError("add missing ingredients", err))
	}
	s.publish(ctx, p.Events()...)

	result.Generation = p.Generation()
	s.metrics.RecordBulkWrite("shopping_list", len(result.Listed), len(result.Skipped))
	s.logger.Info("Missing ingredients listed",
		zap.String("recipe_id", recipeID.String()),
		zap.Int("listed", len(result.Listed)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// shoppingNeed decides what to put on the shopping list for one analyzed line.
// A shortfall already covered by matching shopping list entries in the same
// unit is not listed again. A false result with an empty reason means nothing
// is needed.
func shoppingNeed(item ingredient.IngredientAnalysis, list []pantry.ShoppingListEntry) (pantry.ShoppingListEntry, string, bool) {
	switch item.Status.Kind {
	case ingredient.Missing:
		q := item.Parsed.Quantity
		return pantry.ShoppingListEntry{Name: item.Parsed.Name, Quantity: q.Value, Unit: q.Unit}, "", true

	case ingredient.InInventory:
		if item.Status.Sufficient {
			return pantry.ShoppingListEntry{}, "", false
		}
		if item.Status.Ambiguous() {
			return pantry.ShoppingListEntry{}, reasonAmbiguous, false
		}
		q := item.Parsed.Quantity
		if !ingredient.SameUnit(q.Unit, item.Status.InventoryMatches[0].Unit) {
			return pantry.ShoppingListEntry{}, reasonUnitMismatch, false
		}
		shortfall := decimal.NewFromFloat(q.Value).Sub(decimal.NewFromFloat(item.Status.Available))
		for _, listed := range ingredient.MatchShoppingList(item.Parsed.Name, list).Candidates {
			if ingredient.SameUnit(q.Unit, listed.Unit) {
				shortfall = shortfall.Sub(decimal.NewFromFloat(listed.Quantity))
			}
		}
		if !shortfall.IsPositive() {
			return pantry.ShoppingListEntry{}, "", false
		}
		return pantry.ShoppingListEntry{Name: item.Parsed.Name, Quantity: shortfall.InexactFloat64(), Unit: q.Unit}, "", true

	default:
		return pantry.ShoppingListEntry{}, "", false
	}
}

// CookRecipe removes what the recipe uses from the inventory. Lines are
// matched one at a time against the inventory as it stands after the
// previous line, so two lines drawing on one item cannot overdraw it.
// Ambiguous matches, unquantified lines and unit mismatches are skipped and
// reported for the user to settle.
func (s *KitchenService) CookRecipe(ctx context.Context, recipeID uuid.UUID, servings float64) (*inbound.BulkResultDTO, error) {
	ctx, span := s.startSpan(ctx, "CookRecipe", attribute.String("recipe.id", recipeID.String()))
	defer span.End()

	r, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	scaled, err := s.scaleRecipe(r, servings)
	if err != nil {
		return nil, s.fail(span, err)
	}

	var result *inbound.BulkResultDTO
	p, err := s.pantries.Update(ctx, func(p *pantry.Pantry) error {
		result = &inbound.BulkResultDTO{RecipeID: recipeID, Servings: scaled.Servings}

		for i, line := range scaled.Lines {
			item := ingredient.AnalyzeLine(line, p.Inventory(), nil)
			item.Index = i

			if item.Status.Kind != ingredient.InInventory {
				result.Skipped = append(result.Skipped, skippedLine(item, item.Status.Kind.String()))
				continue
			}

			consumption, reason := consume(p, item)
			if reason != "" {
				result.Skipped = append(result.Skipped, skippedLine(item, reason))
				continue
			}
			result.Consumed = append(result.Consumed, consumption)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, s.pantryError("cook recipe", err))
	}
	s.publish(ctx, p.Events()...)

	result.Generation = p.Generation()
	s.metrics.RecordBulkWrite("cook", len(result.Consumed), len(result.Skipped))
	s.logger.Info("Recipe cooked",
		zap.String("recipe_id", recipeID.String()),
		zap.Int("consumed", len(result.Consumed)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func consume(p *pantry.Pantry, item ingredient.IngredientAnalysis) (inbound.ConsumptionDTO, string) {
	if item.Status.Ambiguous() {
		return inbound.ConsumptionDTO{}, reasonAmbiguous
	}
	if item.Parsed.Quantity == nil {
		return inbound.ConsumptionDTO{}, reasonNoQuantity
	}

	entry := item.Status.InventoryMatches[0]
	q := item.Parsed.Quantity
	if !ingredient.SameUnit(q.Unit, entry.Unit) {
		return inbound.ConsumptionDTO{}, reasonUnitMismatch
	}

	amount := q.Value
	if amount > entry.Quantity {
		amount = entry.Quantity
	}
	remaining, err := p.Consume(entry.ID, amount)
	if err != nil {
		return inbound.ConsumptionDTO{}, err.Error()
	}

	return inbound.ConsumptionDTO{
		ItemID:    entry.ID,
		Name:      entry.Name,
		Amount:    amount,
		Remaining: remaining,
	}, ""
}

func analysisCacheKey(r *recipe.Recipe, servings float64, generation uint64) string {
	return fmt.Sprintf("analysis:%s:v%d:s%s:g%d",
		r.ID(), r.Version(), strconv.FormatFloat(servings, 'f', -1, 64), generation)
}

func (s *KitchenService) cachedReport(ctx context.Context, key string) (*inbound.ReportDTO, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Analysis cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}

	var dto inbound.ReportDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("Discarding corrupt cached analysis", zap.String("key", key), zap.Error(err))
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}
	s.metrics.RecordCacheLookup(true)
	return &dto, true
}

func (s *KitchenService) storeReport(ctx context.Context, key string, dto *inbound.ReportDTO) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("Failed to encode analysis", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.AnalysisCacheTTL); err != nil {
		s.logger.Warn("Analysis cache write failed", zap.String("key", key), zap.Error(err))
	}
}
