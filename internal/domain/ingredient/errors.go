package ingredient

import "errors"

// Domain errors for ingredient text operations. Engine functions return them
// as the cause of an INVALID_ARGUMENT AppError.
var (
	ErrInvalidServings   = errors.New("servings must be a finite number greater than 0")
	ErrMalformedQuantity = errors.New("quantity text is not a number, fraction or mixed number")
	ErrZeroDenominator   = errors.New("fraction denominator cannot be 0")
)
