package ingredient

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

// scalePlaces is the precision a scaled quantity is rounded to before it is
// rendered as a fraction.
const scalePlaces = 2

// Scale rewrites the quantity in line for newServings, given that the line
// was written for originalServings. Only the numeric span changes; units and
// descriptors are left untouched. A line without a quantity is returned as is.
//
// Always scale from the base text of a recipe. Rescaling an already scaled
// line compounds rounding error.
func Scale(line string, originalServings, newServings float64) (string, error) {
	if err := validateServings("originalServings", originalServings); err != nil {
		return "", err
	}
	if err := validateServings("newServings", newServings); err != nil {
		return "", err
	}
	return scaleLine(line, originalServings, newServings), nil
}

// ScaleAll scales every line, keeping the result index-aligned with lines.
func ScaleAll(lines []string, originalServings, newServings float64) ([]string, error) {
	if err := validateServings("originalServings", originalServings); err != nil {
		return nil, err
	}
	if err := validateServings("newServings", newServings); err != nil {
		return nil, err
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = scaleLine(line, originalServings, newServings)
	}
	return out, nil
}

// ScaleQuantity returns value scaled by newServings/originalServings and
// rounded to two decimal places.
func ScaleQuantity(value, originalServings, newServings float64) (float64, error) {
	if err := validateServings("originalServings", originalServings); err != nil {
		return 0, err
	}
	if err := validateServings("newServings", newServings); err != nil {
		return 0, err
	}
	return scaledValue(value, originalServings, newServings), nil
}

func scaleLine(line string, originalServings, newServings float64) string {
	if originalServings == newServings {
		return line
	}

	pq, ok := ParseQuantity(line)
	if !ok {
		return line
	}

	text := ToFraction(scaledValue(pq.Value, originalServings, newServings))
	return line[:pq.Start] + text + line[pq.End:]
}

func scaledValue(value, originalServings, newServings float64) float64 {
	return decimal.NewFromFloat(value).
		Mul(decimal.NewFromFloat(newServings)).
		Div(decimal.NewFromFloat(originalServings)).
		Round(scalePlaces).
		InexactFloat64()
}

func validateServings(argument string, servings float64) error {
	if math.IsNaN(servings) || math.IsInf(servings, 0) || servings <= 0 {
		return apperrors.NewInvalidArgumentError(argument, fmt.Sprintf("must be greater than 0, got %v", servings)).
			WithCause(ErrInvalidServings)
	}
	return nil
}
