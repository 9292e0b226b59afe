package ingredient

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

// fractionDenominators are tried in order; the first one with the smallest
// error wins, so simpler fractions are preferred on ties.
var fractionDenominators = [...]int{2, 3, 4, 8, 16}

// ToDecimal converts "3", "1.5", "3/4" or "1 1/2" to a number.
func ToDecimal(text string) (float64, error) {
	fields := strings.Fields(text)

	switch len(fields) {
	case 1:
		if strings.Contains(fields[0], "/") {
			return parseFraction(fields[0], text)
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, malformed(text)
		}
		return v, nil
	case 2:
		whole, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil || !strings.Contains(fields[1], "/") {
			return 0, malformed(text)
		}
		frac, err := parseFraction(fields[1], text)
		if err != nil {
			return 0, err
		}
		return float64(whole) + frac, nil
	default:
		return 0, malformed(text)
	}
}

func parseFraction(field, text string) (float64, error) {
	num, den, ok := strings.Cut(field, "/")
	if !ok {
		return 0, malformed(text)
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, malformed(text)
	}
	d, err := strconv.ParseUint(den, 10, 64)
	if err != nil {
		return 0, malformed(text)
	}
	if d == 0 {
		return 0, apperrors.NewInvalidArgumentError("fraction", text).WithCause(ErrZeroDenominator)
	}
	return float64(n) / float64(d), nil
}

func malformed(text string) error {
	return apperrors.NewInvalidArgumentError("quantity", text).WithCause(ErrMalformedQuantity)
}

// ToFraction renders value as a whole number, a fraction, or a mixed number
// using the nearest sixteenth, third, or coarser step.
func ToFraction(value float64) string {
	if value < 0 {
		return "-" + ToFraction(-value)
	}
	if value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	whole := math.Floor(value)
	frac := value - whole

	bestDen, bestNum := 0, 0.0
	bestErr := math.Inf(1)
	for _, d := range fractionDenominators {
		num := math.Round(frac * float64(d))
		if e := math.Abs(frac - num/float64(d)); e < bestErr {
			bestDen, bestNum, bestErr = d, num, e
		}
	}

	if int(bestNum) == bestDen {
		whole++
		bestNum = 0
	}

	wholeText := strconv.FormatFloat(whole, 'f', -1, 64)
	if bestNum == 0 {
		return wholeText
	}

	fracText := strconv.Itoa(int(bestNum)) + "/" + strconv.Itoa(bestDen)
	if whole == 0 {
		return fracText
	}
	return wholeText + " " + fracText
}
