package kitchen_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/alchemorsel/pantry/internal/application/kitchen"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
)

// KitchenServiceTestSuite runs every use case against one storage backend
type KitchenServiceTestSuite struct {
	suite.Suite
	backend   func(t *testing.T) testutils.Backend
	ctx       context.Context
	service   *kitchen.KitchenService
	publisher *testutils.RecordingPublisher
	metrics   *testutils.MockMetricsRecorder
}

func TestKitchenService(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		suite.Run(t, &KitchenServiceTestSuite{backend: func(*testing.T) testutils.Backend {
			return testutils.MemoryBackend()
		}})
	})
	t.Run("sqlite", func(t *testing.T) {
		suite.Run(t, &KitchenServiceTestSuite{backend: testutils.SQLiteBackend})
	})
}

func (s *KitchenServiceTestSuite) SetupTest() {
	backend := s.backend(s.T())

	s.ctx = context.Background()
	s.publisher = &testutils.RecordingPublisher{}
	s.metrics = &testutils.MockMetricsRecorder{}
	s.metrics.On("RecordAnalysis", mock.Anything, mock.Anything, mock.Anything).Maybe()
	s.metrics.On("RecordScaling", mock.Anything, mock.Anything).Maybe()
	s.metrics.On("RecordCacheLookup", mock.Anything).Maybe()
	s.metrics.On("RecordBulkWrite", mock.Anything, mock.Anything, mock.Anything).Maybe()

	s.service = kitchen.NewKitchenService(
		backend.Recipes,
		backend.Pantries,
		memory.NewCacheRepository(),
		s.publisher,
		s.metrics,
		kitchen.Config{AnalysisCacheTTL: time.Minute},
		zaptest.NewLogger(s.T()),
	)
}

func (s *KitchenServiceTestSuite) createRecipe(lines ...string) *inbound.RecipeDTO {
	dto, err := s.service.CreateRecipe(s.ctx, testutils.NewRecipeCommandBuilder().WithIngredients(lines...).Build())
	s.Require().NoError(err)
	return dto
}

func (s *KitchenServiceTestSuite) stock(name string, quantity float64, unit string, expiresAt *time.Time) *inbound.InventoryItemDTO {
	item, err := s.service.StockItem(s.ctx, inbound.StockItemCommand{
		Name: name, Quantity: quantity, Unit: unit, ExpiresAt: expiresAt,
	})
	s.Require().NoError(err)
	return item
}

func (s *KitchenServiceTestSuite) list(name string, quantity float64, unit string) *inbound.ShoppingListItemDTO {
	item, err := s.service.ListItem(s.ctx, inbound.ListItemCommand{Name: name, Quantity: quantity, Unit: unit})
	s.Require().NoError(err)
	return item
}

func (s *KitchenServiceTestSuite) TestParseLine() {
	parsed, err := s.service.ParseLine(s.ctx, inbound.ParseLineCommand{Text: "1 1/2 cups chopped fresh basil"})
	s.Require().NoError(err)

	s.Equal("Basil", parsed.Name)
	s.Require().NotNil(parsed.Quantity)
	s.Equal(1.5, parsed.Quantity.Value)
	s.Equal("1 1/2", parsed.Quantity.Text)
	s.Equal("cups", parsed.Quantity.Unit)

	parsed, err = s.service.ParseLine(s.ctx, inbound.ParseLineCommand{Text: "salt to taste"})
	s.Require().NoError(err)
	s.Nil(parsed.Quantity)
}

func (s *KitchenServiceTestSuite) TestScaleLines() {
	scaled, err := s.service.ScaleLines(s.ctx, inbound.ScaleCommand{
		Lines:            []string{"2 cups flour", "salt to taste", "1 1/2 cups milk"},
		OriginalServings: 4,
		NewServings:      2,
	})
	s.Require().NoError(err)
	s.Equal([]string{"1 cups flour", "salt to taste", "3/4 cups milk"}, scaled.Lines)
	s.Equal(2.0, scaled.Servings)

	_, err = s.service.ScaleLines(s.ctx, inbound.ScaleCommand{Lines: []string{"2 eggs"}, OriginalServings: 4, NewServings: 0})
	testutils.AssertAppError(s.T(), err, apperrors.CodeInvalidArgument)

	_, err = s.service.ScaleLines(s.ctx, inbound.ScaleCommand{OriginalServings: 4, NewServings: 2})
	testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
}

func (s *KitchenServiceTestSuite) TestAnalyzeLines() {
	report, err := s.service.AnalyzeLines(s.ctx, inbound.AnalyzeLinesCommand{
		Lines: []string{"2 cups flour", "1 cup sugar", "3 eggs", "salt"},
		Inventory: []inbound.InventoryItemInput{
			{ID: uuid.New(), Name: "Flour", Quantity: 1, Unit: "cups"},
		},
		ShoppingList: []inbound.ShoppingListItemInput{
			{ID: uuid.New(), Name: "Sugar", Quantity: 1, Unit: "cup"},
		},
	})
	s.Require().NoError(err)

	s.Require().Len(report.Items, 4)
	s.Equal("in_inventory", report.Items[0].Status)
	s.Require().NotNil(report.Items[0].Sufficient)
	s.False(*report.Items[0].Sufficient)
	s.Equal(1.0, *report.Items[0].Available)
	s.Equal("in_shopping_list", report.Items[1].Status)
	s.Equal("missing", report.Items[2].Status)
	s.Equal("unparseable", report.Items[3].Status)

	s.Equal(inbound.SummaryDTO{Total: 4, InInventory: 1, Insufficient: 1, InShoppingList: 1, Missing: 1, Unparseable: 1}, report.Summary)
	s.Zero(report.Generation)
}

func (s *KitchenServiceTestSuite) TestCreateAndGetRecipe() {
	created := s.createRecipe("2 cups flour", "  ", "1 cup milk")
	s.Equal([]string{"2 cups flour", "1 cup milk"}, created.Ingredients)
	s.Equal(int64(1), created.Version)
	s.Equal([]string{"recipe.created"}, s.publisher.Names())

	found, err := s.service.GetRecipe(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Title, found.Title)
	s.Equal(created.Ingredients, found.Ingredients)

	_, err = s.service.GetRecipe(s.ctx, uuid.New())
	testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
}

func (s *KitchenServiceTestSuite) TestCreateRecipe_Validation() {
	tests := []struct {
		name string
		cmd  inbound.CreateRecipeCommand
	}{
		{"short title", testutils.NewRecipeCommandBuilder().WithTitle("ab").Build()},
		{"zero servings", testutils.NewRecipeCommandBuilder().WithServings(0).Build()},
		{"too many servings", testutils.NewRecipeCommandBuilder().WithServings(1001).Build()},
		{"no ingredients", testutils.NewRecipeCommandBuilder().WithIngredients().Build()},
		{"only blank lines", testutils.NewRecipeCommandBuilder().WithIngredients(" ", "").Build()},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateRecipe(s.ctx, tt.cmd)
			testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
		})
	}
}

func (s *KitchenServiceTestSuite) TestListRecipes() {
	f := testutils.NewFactory(42)
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateRecipe(s.ctx, f.RecipeCommand())
		s.Require().NoError(err)
	}

	page, err := s.service.ListRecipes(s.ctx, inbound.PaginationParams{Limit: 2})
	s.Require().NoError(err)
	s.Len(page.Recipes, 2)
	s.Equal(3, page.Total)

	page, err = s.service.ListRecipes(s.ctx, inbound.PaginationParams{})
	s.Require().NoError(err)
	s.Len(page.Recipes, 3)
	s.Equal(20, page.Limit)

	_, err = s.service.ListRecipes(s.ctx, inbound.PaginationParams{Limit: 500})
	testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
}

func (s *KitchenServiceTestSuite) TestScaleRecipe() {
	r := s.createRecipe("2 cups flour", "1 cup milk", "salt to taste")

	scaled, err := s.service.ScaleRecipe(s.ctx, r.ID, 8)
	s.Require().NoError(err)
	s.Equal([]string{"4 cups flour", "2 cup milk", "salt to taste"}, scaled.Lines)
	s.Equal(4.0, scaled.OriginalServings)
	s.Equal(r.ID, *scaled.RecipeID)

	base, err := s.service.ScaleRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)
	s.Equal(r.Ingredients, base.Lines)
	s.Equal(4.0, base.Servings)

	_, err = s.service.ScaleRecipe(s.ctx, r.ID, -1)
	testutils.AssertAppError(s.T(), err, apperrors.CodeInvalidArgument)

	_, err = s.service.ScaleRecipe(s.ctx, uuid.New(), 2)
	testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
}

func (s *KitchenServiceTestSuite) TestStockAndRemoveInventoryItem() {
	item := s.stock(" Flour ", 5, "cups", nil)
	s.Equal("Flour", item.Name)
	s.NotEqual(uuid.Nil, item.ID)

	p, err := s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), p.Generation)
	s.Require().Len(p.Inventory, 1)
	s.Equal(5.0, p.Inventory[0].Quantity)

	s.Require().NoError(s.service.RemoveInventoryItem(s.ctx, item.ID))
	err = s.service.RemoveInventoryItem(s.ctx, item.ID)
	testutils.AssertAppError(s.T(), err, apperrors.CodeItemNotFound)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(item.ID.String(), appErr.Metadata["item_id"])
	s.ErrorIs(err, pantry.ErrItemNotFound)

	p, err = s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Empty(p.Inventory)
	s.Equal(uint64(2), p.Generation)
	s.Equal([]string{"pantry.inventory.stocked", "pantry.inventory.removed"}, s.publisher.Names())

	_, err = s.service.StockItem(s.ctx, inbound.StockItemCommand{Name: "Flour", Quantity: 0})
	testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
}

func (s *KitchenServiceTestSuite) TestListItem_MergesSameNameAndUnit() {
	first := s.list("Flour", 1, "cups")
	second := s.list("flour", 2, "cups")
	s.Equal(first.ID, second.ID)
	s.Equal(3.0, second.Quantity)

	other := s.list("Flour", 500, "g")
	s.NotEqual(first.ID, other.ID)

	p, err := s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Len(p.ShoppingList, 2)

	missing := uuid.New()
	_, err = s.service.ListItem(s.ctx, inbound.ListItemCommand{Name: "Milk", Quantity: 1, RecipeID: &missing})
	testutils.AssertAppError(s.T(), err, apperrors.CodeRecipeNotFound)
}

func (s *KitchenServiceTestSuite) TestListItem_TagsRecipe() {
	r := s.createRecipe("1 cup milk")

	listed, err := s.service.ListItem(s.ctx, inbound.ListItemCommand{Name: "Milk", Quantity: 1, Unit: "cup", RecipeID: &r.ID})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{r.ID}, listed.TaggedRecipeIDs)
}

func (s *KitchenServiceTestSuite) TestRemoveShoppingListItem() {
	item := s.list("Bread", 1, "")

	s.Require().NoError(s.service.RemoveShoppingListItem(s.ctx, item.ID))
	err := s.service.RemoveShoppingListItem(s.ctx, item.ID)
	testutils.AssertAppError(s.T(), err, apperrors.CodeItemNotFound)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(item.ID.String(), appErr.Metadata["item_id"])
}

func (s *KitchenServiceTestSuite) TestAnalyzeRecipe() {
	r := s.createRecipe("2 cups flour", "1 cup milk", "3 eggs", "salt to taste")
	s.stock("Flour", 1, "cups", nil)
	s.stock("Milk", 2, "cups", nil)
	s.list("Eggs", 6, "")

	report, err := s.service.AnalyzeRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)

	s.Equal(r.ID, *report.RecipeID)
	s.Equal(4.0, report.Servings)
	s.Equal(uint64(3), report.Generation)
	s.Equal(inbound.SummaryDTO{Total: 4, InInventory: 2, Insufficient: 1, InShoppingList: 1, Unparseable: 1}, report.Summary)
	s.True(*report.Items[1].Sufficient)

	halved, err := s.service.AnalyzeRecipe(s.ctx, r.ID, 2)
	s.Require().NoError(err)
	s.Equal(0, halved.Summary.Insufficient, "1 cup of flour is enough for two")
}

func (s *KitchenServiceTestSuite) TestAnalyzeRecipe_CachedPerGeneration() {
	r := s.createRecipe("2 cups flour")
	s.stock("Flour", 1, "cups", nil)

	first, err := s.service.AnalyzeRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)
	second, err := s.service.AnalyzeRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)

	s.Equal(first.Generation, second.Generation)
	s.True(first.AnalyzedAt.Equal(second.AnalyzedAt))
	s.metrics.AssertCalled(s.T(), "RecordCacheLookup", true)

	s.stock("Flour", 5, "cups", nil)
	third, err := s.service.AnalyzeRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)
	s.Greater(third.Generation, first.Generation)
	s.Len(third.Items[0].Candidates, 2, "stale report was not reused")
}

func (s *KitchenServiceTestSuite) TestAddMissingToShoppingList() {
	r := s.createRecipe("2 cups flour", "1 cup milk", "3 eggs", "salt to taste")
	s.stock("Flour", 1, "cups", nil)
	s.stock("Milk", 2, "cups", nil)

	result, err := s.service.AddMissingToShoppingList(s.ctx, r.ID, 0)
	s.Require().NoError(err)

	s.Require().Len(result.Listed, 2)
	s.Equal("Flour", result.Listed[0].Name)
	s.Equal(1.0, result.Listed[0].Quantity, "only the shortfall is listed")
	s.Equal("cups", result.Listed[0].Unit)
	s.Equal("Eggs", result.Listed[1].Name)
	s.Equal(3.0, result.Listed[1].Quantity)
	s.Empty(result.Skipped)

	p, err := s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Equal(result.Generation, p.Generation)
	s.Require().Len(p.ShoppingList, 2)
	for _, item := range p.ShoppingList {
		s.Equal([]uuid.UUID{r.ID}, item.TaggedRecipeIDs)
	}
	s.metrics.AssertCalled(s.T(), "RecordBulkWrite", "shopping_list", 2, 0)
}

func (s *KitchenServiceTestSuite) TestAddMissingToShoppingList_RepeatedCallsDoNotGrowShortfall() {
	r := s.createRecipe("3 cups flour")
	s.stock("Flour", 1, "cups", nil)

	for i := 0; i < 3; i++ {
		_, err := s.service.AddMissingToShoppingList(s.ctx, r.ID, 0)
		s.Require().NoError(err)
	}

	p, err := s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(p.ShoppingList, 1)
	s.Equal("Flour", p.ShoppingList[0].Name)
	s.Equal(2.0, p.ShoppingList[0].Quantity)
}

func (s *KitchenServiceTestSuite) TestAddMissingToShoppingList_TopsUpPartlyListedShortfall() {
	r := s.createRecipe("3 cups flour")
	s.stock("Flour", 1, "cups", nil)
	s.list("Flour", 0.5, "cups")

	result, err := s.service.AddMissingToShoppingList(s.ctx, r.ID, 0)
	s.Require().NoError(err)
	s.Require().Len(result.Listed, 1)
	s.Equal(2.0, result.Listed[0].Quantity, "merged entry covers the whole shortfall")
}

func (s *KitchenServiceTestSuite) TestAddMissingToShoppingList_SkipsAmbiguous() {
	r := s.createRecipe("2 cups flour")
	s.stock("White flour", 1, "cups", nil)
	s.stock("Whole wheat flour", 1, "cups", nil)

	result, err := s.service.AddMissingToShoppingList(s.ctx, r.ID, 0)
	s.Require().NoError(err)

	s.Empty(result.Listed)
	s.Require().Len(result.Skipped, 1)
	s.Equal("ambiguous inventory match", result.Skipped[0].Reason)
	s.Len(result.Skipped[0].Candidates, 2)
}

func (s *KitchenServiceTestSuite) TestCookRecipe() {
	r := s.createRecipe("2 cups flour", "1 cup milk", "3 eggs", "1 cup sugar", "salt to taste")
	flour := s.stock("Flour", 5, "cups", nil)
	s.stock("Milk", 1, "cup", nil)
	s.stock("Eggs", 2, "", nil)
	s.stock("Sugar", 100, "g", nil)

	result, err := s.service.CookRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)

	s.Require().Len(result.Consumed, 3)
	s.Equal(inbound.ConsumptionDTO{ItemID: flour.ID, Name: "Flour", Amount: 2, Remaining: 3}, result.Consumed[0])
	s.Equal(0.0, result.Consumed[1].Remaining)
	s.Equal(2.0, result.Consumed[2].Amount, "cannot consume more eggs than stocked")

	s.Require().Len(result.Skipped, 2)
	s.Equal("unit differs from inventory", result.Skipped[0].Reason)
	s.Equal("unparseable", result.Skipped[1].Reason)

	p, err := s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(p.Inventory, 2)
	s.Equal("Flour", p.Inventory[0].Name)
	s.Equal(3.0, p.Inventory[0].Quantity)
	s.Equal("Sugar", p.Inventory[1].Name)
}

func (s *KitchenServiceTestSuite) TestCookRecipe_LinesShareOneItem() {
	r := s.createRecipe("3 cups flour", "3 cups flour")
	s.stock("Flour", 4, "cups", nil)

	result, err := s.service.CookRecipe(s.ctx, r.ID, 0)
	s.Require().NoError(err)

	s.Require().Len(result.Consumed, 2)
	s.Equal(3.0, result.Consumed[0].Amount)
	s.Equal(1.0, result.Consumed[1].Amount)

	p, err := s.service.GetPantry(s.ctx)
	s.Require().NoError(err)
	s.Empty(p.Inventory)
}

func (s *KitchenServiceTestSuite) TestResolveItem() {
	s.stock("Whole milk", 1, "", nil)
	s.stock("Oat milk", 1, "", nil)
	s.list("Bread", 1, "")

	resolved, err := s.service.ResolveItem(s.ctx, inbound.ResolveItemCommand{Text: "milk", Source: "voice"})
	s.Require().NoError(err)
	s.Equal("Milk", resolved.Name)
	s.Equal("ambiguous", resolved.Inventory.Kind)
	s.Len(resolved.Inventory.Candidates, 2)
	s.Equal("no_match", resolved.ShoppingList.Kind)
	s.Equal(uint64(3), resolved.Generation)

	resolved, err = s.service.ResolveItem(s.ctx, inbound.ResolveItemCommand{Text: "2 bread", Source: "receipt"})
	s.Require().NoError(err)
	s.Equal("no_match", resolved.Inventory.Kind)
	s.Equal("unique", resolved.ShoppingList.Kind)
	s.Require().NotNil(resolved.Quantity)
	s.Equal(2.0, resolved.Quantity.Value)

	_, err = s.service.ResolveItem(s.ctx, inbound.ResolveItemCommand{Text: "milk", Source: "fax"})
	testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
}

func (s *KitchenServiceTestSuite) TestSuggestByExpiration() {
	within := 3 * 24 * time.Hour

	none, err := s.service.SuggestByExpiration(s.ctx, inbound.SuggestionQuery{Within: within})
	s.Require().NoError(err)
	s.Empty(none)

	pesto := s.createRecipe("1 cup basil", "2 garlic")
	s.createRecipe("2 carrots")
	s.createRecipe("1 cup yogurt")
	s.stock("Basil", 2, "cup", testutils.Expiring(24*time.Hour))
	s.stock("Garlic", 4, "", nil)
	s.stock("Yogurt", 1, "cup", testutils.Expiring(10*24*time.Hour))

	suggestions, err := s.service.SuggestByExpiration(s.ctx, inbound.SuggestionQuery{Within: within})
	s.Require().NoError(err)
	s.Require().Len(suggestions, 1)
	s.Equal(pesto.ID, suggestions[0].RecipeID)
	s.Equal([]string{"Basil"}, suggestions[0].ExpiringItems)
	s.Equal(2, suggestions[0].InInventory)
	s.Equal(2.0, suggestions[0].Score)

	_, err = s.service.SuggestByExpiration(s.ctx, inbound.SuggestionQuery{})
	testutils.AssertAppError(s.T(), err, apperrors.CodeValidationFailed)
}
