package recipe

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
)

// RecipeTestSuite provides a test suite for Recipe entity
type RecipeTestSuite struct {
	suite.Suite
	lines []string
}

// SetupTest resets the base ingredient text
func (suite *RecipeTestSuite) SetupTest() {
	suite.lines = []string{"2 cups flour", "1 1/2 cups sugar", "salt to taste"}
}

// TestRecipeCreation tests recipe creation scenarios
func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		// Arrange
		title := "Sugar Cookies"

		// Act
		r, err := NewRecipe(title, "Soft and chewy", 4, suite.lines)

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), r)

		assert.Equal(suite.T(), title, r.Title())
		assert.NotEqual(suite.T(), uuid.Nil, r.ID())
		assert.Equal(suite.T(), 4.0, r.BaseServings())
		assert.Equal(suite.T(), suite.lines, r.IngredientLines())
		assert.Equal(suite.T(), int64(1), r.Version())
		assert.NotZero(suite.T(), r.CreatedAt())

		events := r.Events()
		require.Len(suite.T(), events, 1)
		created, ok := events[0].(RecipeCreatedEvent)
		assert.True(suite.T(), ok, "Should emit RecipeCreatedEvent")
		assert.Equal(suite.T(), r.ID(), created.RecipeID)
	})

	suite.Run("BlankLines_ShouldBeDropped", func() {
		r, err := NewRecipe("Toast", "", 1, []string{"  1 slice bread ", "", "   "})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{"1 slice bread"}, r.IngredientLines())
	})

	suite.Run("InvalidInput_ShouldReturnError", func() {
		tests := []struct {
			name     string
			title    string
			desc     string
			servings float64
			lines    []string
			expected error
		}{
			{"short title", "ab", "", 4, suite.lines, ErrTitleTooShort},
			{"blank title", "     ", "", 4, suite.lines, ErrTitleTooShort},
			{"long title", strings.Repeat("a", 201), "", 4, suite.lines, ErrTitleTooLong},
			{"long description", "Soup", strings.Repeat("d", 2001), 4, suite.lines, ErrDescriptionTooLong},
			{"zero servings", "Soup", "", 0, suite.lines, ErrInvalidServings},
			{"negative servings", "Soup", "", -2, suite.lines, ErrInvalidServings},
			{"NaN servings", "Soup", "", math.NaN(), suite.lines, ErrInvalidServings},
			{"too many servings", "Soup", "", 1001, suite.lines, ErrInvalidServings},
			{"no ingredients", "Soup", "", 4, nil, ErrNoIngredients},
			{"only blank ingredients", "Soup", "", 4, []string{" "}, ErrNoIngredients},
			{"too many ingredients", "Soup", "", 4, make201Lines(), ErrTooManyIngredients},
		}

		for _, tt := range tests {
			r, err := NewRecipe(tt.title, tt.desc, tt.servings, tt.lines)
			assert.Nil(suite.T(), r, tt.name)
			assert.Equal(suite.T(), tt.expected, err, tt.name)
		}
	})
}

// TestRecipeScaling tests scaling from the base text
func (suite *RecipeTestSuite) TestRecipeScaling() {
	suite.Run("Scale_ShouldDeriveFromBaseText", func() {
		r, err := NewRecipe("Sugar Cookies", "", 4, suite.lines)
		require.NoError(suite.T(), err)

		scaled, err := r.Scale(6)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), r.ID(), scaled.RecipeID)
		assert.Equal(suite.T(), 6.0, scaled.Servings)
		assert.Equal(suite.T(), []string{"3 cups flour", "2 1/4 cups sugar", "salt to taste"}, scaled.Lines)
		assert.Equal(suite.T(), suite.lines, r.IngredientLines(), "base text must not change")
	})

	suite.Run("RepeatedScaling_ShouldNotCompound", func() {
		r, err := NewRecipe("Sugar Cookies", "", 3, []string{"1 cup milk"})
		require.NoError(suite.T(), err)

		first, err := r.Scale(7)
		require.NoError(suite.T(), err)
		_, err = r.Scale(1)
		require.NoError(suite.T(), err)
		again, err := r.Scale(7)
		require.NoError(suite.T(), err)

		assert.Equal(suite.T(), first.Lines, again.Lines)
	})

	suite.Run("InvalidServings_ShouldReturnInvalidArgument", func() {
		r, err := NewRecipe("Sugar Cookies", "", 4, suite.lines)
		require.NoError(suite.T(), err)

		_, err = r.Scale(0)
		assert.True(suite.T(), errors.Is(err, ingredient.ErrInvalidServings))
	})
}

// TestRecipeUpdates tests mutation of an existing recipe
func (suite *RecipeTestSuite) TestRecipeUpdates() {
	suite.Run("UpdateTitle_ShouldBumpVersion", func() {
		r, _ := NewRecipe("Sugar Cookies", "", 4, suite.lines)
		r.Events()

		require.NoError(suite.T(), r.UpdateTitle("Brown Sugar Cookies"))

		assert.Equal(suite.T(), "Brown Sugar Cookies", r.Title())
		assert.Equal(suite.T(), int64(2), r.Version())
		events := r.Events()
		require.Len(suite.T(), events, 1)
		updated := events[0].(RecipeTitleUpdatedEvent)
		assert.Equal(suite.T(), "Sugar Cookies", updated.OldTitle)

		assert.Equal(suite.T(), ErrTitleTooShort, r.UpdateTitle("x"))
	})

	suite.Run("ReplaceIngredients_ShouldSwapBase", func() {
		r, _ := NewRecipe("Sugar Cookies", "", 4, suite.lines)

		require.NoError(suite.T(), r.ReplaceIngredients(2, []string{"1 cup flour"}))

		assert.Equal(suite.T(), 2.0, r.BaseServings())
		assert.Equal(suite.T(), []string{"1 cup flour"}, r.IngredientLines())
		assert.Equal(suite.T(), ErrNoIngredients, r.ReplaceIngredients(2, nil))
		assert.Equal(suite.T(), ErrInvalidServings, r.ReplaceIngredients(0, suite.lines))
	})

	suite.Run("IngredientLines_ShouldReturnCopy", func() {
		r, _ := NewRecipe("Sugar Cookies", "", 4, suite.lines)

		lines := r.IngredientLines()
		lines[0] = "mutated"

		assert.Equal(suite.T(), "2 cups flour", r.IngredientLines()[0])
	})
}

// TestRecipeRestore tests rehydration from storage
func (suite *RecipeTestSuite) TestRecipeRestore() {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := Snapshot{
		ID:           uuid.New(),
		Version:      5,
		Title:        "Pancakes",
		BaseServings: 2,
		Lines:        []string{"1 cup flour", "1 egg"},
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	r := Restore(snap)

	assert.Equal(suite.T(), snap, r.Snapshot())
	assert.Empty(suite.T(), r.Events())
	assert.Equal(suite.T(), uint64(0), r.Generation())
}

func make201Lines() []string {
	lines := make([]string, 201)
	for i := range lines {
		lines[i] = "1 egg"
	}
	return lines
}

// TestRecipeTestSuite runs the recipe test suite
func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

// BenchmarkRecipeScale benchmarks scaling a recipe
func BenchmarkRecipeScale(b *testing.B) {
	r, err := NewRecipe("Benchmark Recipe", "", 4, []string{
		"2 cups flour", "1 1/2 cups sugar", "3 eggs", "1/2 tsp salt", "salt to taste",
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Scale(6); err != nil {
			b.Fatal(err)
		}
	}
}
