// Package recipe contains the recipe aggregate. A recipe keeps the
// ingredient text exactly as it was written for its base serving count;
// every scaled view is derived from that text.
package recipe

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	minTitleLength       = 3
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	maxIngredientLines   = 200
	maxServings          = 1000
)

// Recipe represents a recipe and its base ingredient text.
type Recipe struct {
	shared.AggregateRoot

	id      uuid.UUID
	version int64 // Optimistic locking

	title        string
	description  string
	baseServings float64
	lines        []string

	createdAt time.Time
	updatedAt time.Time
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(title, description string, baseServings float64, lines []string) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validateServings(baseServings); err != nil {
		return nil, err
	}
	lines, err := cleanLines(lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Recipe{
		id:           uuid.New(),
		version:      1,
		title:        title,
		description:  description,
		baseServings: baseServings,
		lines:        lines,
		createdAt:    now,
		updatedAt:    now,
	}

	r.Record(RecipeCreatedEvent{
		RecipeID:     r.id,
		Title:        title,
		BaseServings: baseServings,
		CreatedAt:    now,
	})

	return r, nil
}

// Snapshot is the persisted form of a recipe.
type Snapshot struct {
	ID           uuid.UUID
	Version      int64
	Title        string
	Description  string
	BaseServings float64
	Lines        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Restore rehydrates a recipe from storage without raising events.
func Restore(s Snapshot) *Recipe {
	return &Recipe{
		id:           s.ID,
		version:      s.Version,
		title:        s.Title,
		description:  s.Description,
		baseServings: s.BaseServings,
		lines:        append([]string(nil), s.Lines...),
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot returns the persisted form of the recipe
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:           r.id,
		Version:      r.version,
		Title:        r.title,
		Description:  r.description,
		BaseServings: r.baseServings,
		Lines:        r.IngredientLines(),
		CreatedAt:    r.createdAt,
		UpdatedAt:    r.updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Version returns the recipe's version
func (r *Recipe) Version() int64 {
	return r.version
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Description returns the recipe's description
func (r *Recipe) Description() string {
	return r.description
}

// BaseServings returns the serving count the ingredient text was written for
func (r *Recipe) BaseServings() float64 {
	return r.baseServings
}

// IngredientLines returns a copy of the base ingredient text
func (r *Recipe) IngredientLines() []string {
	return append([]string(nil), r.lines...)
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// UpdateTitle updates the recipe title with validation
func (r *Recipe) UpdateTitle(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}

	oldTitle := r.title
	r.title = title
	r.touch()

	r.Record(RecipeTitleUpdatedEvent{
		RecipeID:  r.id,
		OldTitle:  oldTitle,
		NewTitle:  title,
		UpdatedAt: r.updatedAt,
	})

	return nil
}

// ReplaceIngredients swaps the base ingredient text, optionally for a new
// base serving count.
func (r *Recipe) ReplaceIngredients(baseServings float64, lines []string) error {
	if err := validateServings(baseServings); err != nil {
		return err
	}
	lines, err := cleanLines(lines)
	if err != nil {
		return err
	}

	r.baseServings = baseServings
	r.lines = lines
	r.touch()

	r.Record(IngredientsReplacedEvent{
		RecipeID:     r.id,
		BaseServings: baseServings,
		LineCount:    len(lines),
		ReplacedAt:   r.updatedAt,
	})

	return nil
}

// Scale returns the ingredient lines for servings, derived from the base text.
func (r *Recipe) Scale(servings float64) (ScaledRecipe, error) {
	lines, err := ingredient.ScaleAll(r.lines, r.baseServings, servings)
	if err != nil {
		return ScaledRecipe{}, err
	}
	return ScaledRecipe{
		RecipeID: r.id,
		Servings: servings,
		Lines:    lines,
	}, nil
}

func (r *Recipe) touch() {
	r.updatedAt = time.Now()
	r.version++
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < minTitleLength {
		return ErrTitleTooShort
	}
	if n > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func validateServings(servings float64) error {
	// NaN fails the comparison too
	if !(servings > 0) || servings > maxServings {
		return ErrInvalidServings
	}
	return nil
}

// cleanLines drops blank lines and trims the rest.
func cleanLines(lines []string) ([]string, error) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoIngredients
	}
	if len(out) > maxIngredientLines {
		return nil, ErrTooManyIngredients
	}
	return out, nil
}
