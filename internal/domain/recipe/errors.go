package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleTooShort      = errors.New("recipe title must be at least 3 characters")
	ErrTitleTooLong       = errors.New("recipe title must not exceed 200 characters")
	ErrDescriptionTooLong = errors.New("recipe description must not exceed 2000 characters")
	ErrInvalidServings    = errors.New("base servings must be greater than 0 and at most 1000")
	ErrNoIngredients      = errors.New("recipe must have at least one ingredient")
	ErrTooManyIngredients = errors.New("recipe must not exceed 200 ingredient lines")

	ErrRecipeNotFound = errors.New("recipe not found")
)
