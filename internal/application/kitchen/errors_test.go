package kitchen_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/application/kitchen"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
)

func newMockedService(recipes *testutils.MockRecipeRepository, pantries *testutils.MockPantryRepository, cache *testutils.MockCacheRepository) *kitchen.KitchenService {
	return kitchen.NewKitchenService(recipes, pantries, cache, nil, nil, kitchen.Config{}, zap.NewNop())
}

func TestKitchenService_RepositoryFailuresBecomeDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")

	recipes := &testutils.MockRecipeRepository{}
	recipes.On("FindByID", mock.Anything, mock.Anything).Return(nil, down)
	recipes.On("List", mock.Anything, mock.Anything, mock.Anything).Return(nil, 0, down)
	recipes.On("Create", mock.Anything, mock.Anything).Return(down)

	pantries := &testutils.MockPantryRepository{}
	pantries.On("Load", mock.Anything).Return(nil, down)
	pantries.On("Update", mock.Anything, mock.Anything).Return(nil, down)

	service := newMockedService(recipes, pantries, &testutils.MockCacheRepository{})

	tests := []struct {
		name string
		call func() error
	}{
		{"get recipe", func() error { _, err := service.GetRecipe(ctx, uuid.New()); return err }},
		{"list recipes", func() error { _, err := service.ListRecipes(ctx, inbound.PaginationParams{}); return err }},
		{"create recipe", func() error {
			_, err := service.CreateRecipe(ctx, testutils.NewRecipeCommandBuilder().Build())
			return err
		}},
		{"get pantry", func() error { _, err := service.GetPantry(ctx); return err }},
		{"stock item", func() error {
			_, err := service.StockItem(ctx, inbound.StockItemCommand{Name: "Flour", Quantity: 1})
			return err
		}},
		{"remove item", func() error { return service.RemoveInventoryItem(ctx, uuid.New()) }},
		{"resolve item", func() error {
			_, err := service.ResolveItem(ctx, inbound.ResolveItemCommand{Text: "milk"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			testutils.AssertAppError(t, err, apperrors.CodeDatabaseError)
			assert.ErrorIs(t, err, down)
		})
	}
}

func TestKitchenService_AdapterAppErrorsPassThrough(t *testing.T) {
	id := uuid.New()
	notFound := apperrors.NewRecipeNotFoundError(id.String()).WithCause(recipe.ErrRecipeNotFound)

	recipes := &testutils.MockRecipeRepository{}
	recipes.On("FindByID", mock.Anything, id).Return(nil, notFound)

	service := newMockedService(recipes, &testutils.MockPantryRepository{}, &testutils.MockCacheRepository{})

	_, err := service.AnalyzeRecipe(context.Background(), id, 0)
	testutils.AssertAppError(t, err, apperrors.CodeRecipeNotFound)
	recipes.AssertExpectations(t)
}

func TestKitchenService_CacheFailureFallsBackToAnalysis(t *testing.T) {
	ctx := context.Background()
	r, err := recipe.NewRecipe("Pancakes", "", 4, []string{"2 cups flour"})
	require.NoError(t, err)

	recipes := &testutils.MockRecipeRepository{}
	recipes.On("FindByID", mock.Anything, r.ID()).Return(r, nil)

	pantries := &testutils.MockPantryRepository{}
	pantries.On("Load", mock.Anything).Return(pantry.New(), nil)

	cache := &testutils.MockCacheRepository{}
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, 10*time.Minute).Return(errors.New("redis down"))

	report, err := newMockedService(recipes, pantries, cache).AnalyzeRecipe(ctx, r.ID(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Missing)
	cache.AssertExpectations(t)
}

func TestKitchenService_CachedReportIsServed(t *testing.T) {
	ctx := context.Background()
	r, err := recipe.NewRecipe("Pancakes", "", 4, []string{"2 cups flour"})
	require.NoError(t, err)

	recipes := &testutils.MockRecipeRepository{}
	recipes.On("FindByID", mock.Anything, r.ID()).Return(r, nil)
	pantries := &testutils.MockPantryRepository{}
	pantries.On("Load", mock.Anything).Return(pantry.New(), nil)

	cached := []byte(`{"items":[],"summary":{"total":7},"generation":0,"analyzed_at":"2024-01-01T00:00:00Z"}`)
	cache := &testutils.MockCacheRepository{}
	cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(cached, nil)

	report, err := newMockedService(recipes, pantries, cache).AnalyzeRecipe(ctx, r.ID(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, report.Summary.Total)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
