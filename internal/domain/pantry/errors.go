package pantry

import "errors"

// Domain errors for pantry operations

var (
	// Entry validation errors
	ErrItemNameRequired  = errors.New("item name is required")
	ErrNegativeQuantity  = errors.New("item quantity cannot be negative")
	ErrZeroQuantity      = errors.New("item quantity must be greater than 0")
	ErrInvalidConsumeQty = errors.New("consumed amount must be greater than 0")

	// Collection errors
	ErrItemNotFound  = errors.New("pantry item not found")
	ErrDuplicateItem = errors.New("pantry item already exists")
)
