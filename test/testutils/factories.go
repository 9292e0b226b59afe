// Package testutils provides test data factories, mocks and assertions
// shared by the package tests
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
)

// pantryFoods are single-word names, so generated entries never match each
// other by accident
var pantryFoods = []string{
	"flour", "sugar", "butter", "milk", "eggs", "rice", "oats", "honey",
	"basil", "garlic", "onions", "carrots", "lentils", "yogurt", "cheese",
}

// Factory generates pantry test data from a seeded faker
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory. The same seed yields the same data.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Food returns a random food name
func (f *Factory) Food() string {
	return f.faker.RandomString(pantryFoods)
}

// Foods returns n distinct food names
func (f *Factory) Foods(n int) []string {
	if n > len(pantryFoods) {
		n = len(pantryFoods)
	}
	names := make([]string, len(pantryFoods))
	copy(names, pantryFoods)
	f.faker.ShuffleStrings(names)
	return names[:n]
}

// Line returns an ingredient line such as "2 cups flour"
func (f *Factory) Line(name string) string {
	unit := f.faker.RandomString([]string{"cups", "tbsp", "tsp", "g"})
	return fmt.Sprintf("%d %s %s", f.faker.Number(1, 5), unit, name)
}

// RecipeCommand returns a valid command for a recipe using names
func (f *Factory) RecipeCommand(names ...string) inbound.CreateRecipeCommand {
	if len(names) == 0 {
		names = f.Foods(3)
	}
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = f.Line(name)
	}
	return NewRecipeCommandBuilder().
		WithTitle(f.faker.Sentence(3)).
		WithDescription(f.faker.Sentence(8)).
		WithServings(float64(f.faker.Number(1, 8))).
		WithIngredients(lines...).
		Build()
}

// StockCommand returns a valid command stocking name
func (f *Factory) StockCommand(name string) inbound.StockItemCommand {
	return inbound.StockItemCommand{
		Name:     name,
		Quantity: float64(f.faker.Number(1, 20)),
		Unit:     f.faker.RandomString([]string{"cups", "g", ""}),
	}
}

// InventoryEntry returns a stored-looking inventory entry
func (f *Factory) InventoryEntry(name string) pantry.InventoryEntry {
	return pantry.InventoryEntry{
		ID:       uuid.New(),
		Name:     name,
		Quantity: float64(f.faker.Number(1, 20)),
		Unit:     f.faker.RandomString([]string{"cups", "g", ""}),
	}
}

// RecipeCommandBuilder provides a fluent interface for recipe commands
type RecipeCommandBuilder struct {
	cmd inbound.CreateRecipeCommand
}

// NewRecipeCommandBuilder starts from a small valid recipe
func NewRecipeCommandBuilder() *RecipeCommandBuilder {
	return &RecipeCommandBuilder{cmd: inbound.CreateRecipeCommand{
		Title:        "Pancakes",
		Description:  "Weekend breakfast",
		BaseServings: 4,
		Ingredients:  []string{"2 cups flour", "1 cup milk", "2 eggs"},
	}}
}

// WithTitle sets the title
func (b *RecipeCommandBuilder) WithTitle(title string) *RecipeCommandBuilder {
	b.cmd.Title = title
	return b
}

// WithDescription sets the description
func (b *RecipeCommandBuilder) WithDescription(description string) *RecipeCommandBuilder {
	b.cmd.Description = description
	return b
}

// WithServings sets the base servings
func (b *RecipeCommandBuilder) WithServings(servings float64) *RecipeCommandBuilder {
	b.cmd.BaseServings = servings
	return b
}

// WithIngredients replaces the ingredient lines
func (b *RecipeCommandBuilder) WithIngredients(lines ...string) *RecipeCommandBuilder {
	b.cmd.Ingredients = lines
	return b
}

// Build returns the command
func (b *RecipeCommandBuilder) Build() inbound.CreateRecipeCommand {
	cmd := b.cmd
	cmd.Ingredients = append([]string(nil), b.cmd.Ingredients...)
	return cmd
}

// Expiring returns a time d from now, for ExpiresAt fields
func Expiring(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}
