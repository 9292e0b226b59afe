package ingredient

import (
	"regexp"
	"sort"
	"strings"
)

// ParsedQuantity is the first number found in an ingredient line.
type ParsedQuantity struct {
	Value float64 `json:"value"`
	// Span is the numeric text exactly as written, e.g. "1 1/2".
	Span string `json:"span"`
	// Unit is the unit word directly after the number, if any.
	Unit string `json:"unit,omitempty"`
	// Start and End are the byte offsets of Span within the line.
	Start int `json:"-"`
	End   int `json:"-"`
}

var quantityPattern = regexp.MustCompile(
	`(\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?|\.\d+)(?:\s*(` + unitAlternation() + `)\b)?`,
)

// unitAlternation lists unit words longest first so that "tablespoon" is
// not cut short by a shorter prefix.
func unitAlternation() string {
	words := make([]string, 0, len(unitWords))
	for w := range unitWords {
		words = append(words, regexp.QuoteMeta(w))
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return `(?i:(?:` + strings.Join(words, "|") + `)(?:es|s)?)`
}

// ParseQuantity finds the first mixed number, fraction, or decimal in line.
// Malformed numbers such as "1/0" are passed over. Lines without a usable
// number, such as "salt to taste", report false.
func ParseQuantity(line string) (ParsedQuantity, bool) {
	for _, m := range quantityPattern.FindAllStringSubmatchIndex(line, -1) {
		span := line[m[2]:m[3]]
		value, err := ToDecimal(span)
		if err != nil {
			continue
		}

		pq := ParsedQuantity{
			Value: value,
			Span:  span,
			Start: m[2],
			End:   m[3],
		}
		if m[4] >= 0 {
			pq.Unit = line[m[4]:m[5]]
		}
		return pq, true
	}
	return ParsedQuantity{}, false
}

// SameUnit reports whether two unit words name the same unit, ignoring case
// and plural endings. A missing unit on either side is compatible with any.
func SameUnit(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return canonicalUnit(a) == canonicalUnit(b)
}

func canonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if _, ok := unitWords[u]; ok {
		return u
	}
	for _, suffix := range []string{"es", "s"} {
		if base, ok := strings.CutSuffix(u, suffix); ok {
			if _, ok := unitWords[base]; ok {
				return base
			}
		}
	}
	return u
}
