package ingredient

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// unitWords are measurement words stripped from names. Plurals ending in
// "s" or "es" are recognised by isUnitWord.
var unitWords = map[string]struct{}{
	"cup": {}, "tablespoon": {}, "tbsp": {}, "teaspoon": {}, "tsp": {},
	"pound": {}, "lb": {}, "ounce": {}, "oz": {}, "gram": {}, "g": {},
	"ml": {}, "milliliter": {}, "pinch": {}, "dash": {}, "handful": {},
	"piece": {}, "slice": {}, "can": {}, "package": {}, "bottle": {},
}

// connectorWords carry no identity for matching purposes.
var connectorWords = map[string]struct{}{
	"of": {}, "the": {}, "a": {}, "an": {},
	"fresh": {}, "chopped": {}, "diced": {}, "sliced": {}, "minced": {},
	"ground": {}, "frozen": {}, "canned": {}, "dried": {}, "raw": {}, "cooked": {},
}

func isUnitWord(word string) bool {
	if _, ok := unitWords[word]; ok {
		return true
	}
	if base, ok := strings.CutSuffix(word, "es"); ok {
		if _, ok := unitWords[base]; ok {
			return true
		}
	}
	if base, ok := strings.CutSuffix(word, "s"); ok {
		if _, ok := unitWords[base]; ok {
			return true
		}
	}
	return false
}

func isConnectorWord(word string) bool {
	_, ok := connectorWords[word]
	return ok
}

// Normalize produces the canonical display name of a free-text item: digits,
// punctuation, units and descriptors removed, whitespace collapsed and the
// first letter capitalised. An empty result means no name could be extracted.
//
// Normalize is idempotent.
func Normalize(text string) string {
	// Upper-then-lower folds runes like ſ and ı onto s and i, so a second
	// pass sees the same words as the first.
	folded := strings.ToLower(strings.ToUpper(text))

	letters := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, folded)

	words := strings.Fields(letters)
	kept := words[:0]
	for _, w := range words {
		if isUnitWord(w) || isConnectorWord(w) {
			continue
		}
		kept = append(kept, w)
	}

	return capitalize(strings.Join(kept, " "))
}

// Tokens splits a canonical name into lowercase words for matching.
func Tokens(name string) []string {
	return strings.Fields(strings.ToLower(name))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
