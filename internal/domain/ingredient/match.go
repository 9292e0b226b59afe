package ingredient

import (
	"strings"

	"github.com/alchemorsel/pantry/internal/domain/pantry"
)

// Item is anything that can be matched against an ingredient name.
type Item interface {
	ItemName() string
	ItemQuantity() float64
}

// MatchKind tells how many entries an ingredient name matched.
type MatchKind int

const (
	NoMatch MatchKind = iota
	Unique
	Ambiguous
)

var matchKindNames = [...]string{
	NoMatch:   "no_match",
	Unique:    "unique",
	Ambiguous: "ambiguous",
}

func (k MatchKind) String() string {
	if k < 0 || int(k) >= len(matchKindNames) {
		return "unknown"
	}
	return matchKindNames[k]
}

// MarshalText encodes the kind by name
func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MatchResult is the outcome of matching one name against a collection.
// Ambiguous results carry every candidate in snapshot order; choosing among
// them is left to the caller.
type MatchResult[E Item] struct {
	Kind       MatchKind `json:"kind"`
	Candidates []E       `json:"candidates,omitempty"`
}

// Unique returns the single matching entry, if there is exactly one.
func (r MatchResult[E]) Unique() (E, bool) {
	var zero E
	if r.Kind != Unique {
		return zero, false
	}
	return r.Candidates[0], true
}

// Matched reports whether at least one entry matched.
func (r MatchResult[E]) Matched() bool {
	return r.Kind != NoMatch
}

// Match returns every entry whose name shares a token with name. Two tokens
// are shared when either is a substring of the other, so "tomato" matches
// "Tomatoes". Entries with no positive quantity are treated as absent.
func Match[E Item](name string, entries []E) MatchResult[E] {
	query := Tokens(Normalize(name))
	if len(query) == 0 {
		return MatchResult[E]{Kind: NoMatch}
	}

	var candidates []E
	for _, e := range entries {
		if e.ItemQuantity() <= 0 {
			continue
		}
		if tokensOverlap(query, Tokens(Normalize(e.ItemName()))) {
			candidates = append(candidates, e)
		}
	}

	switch len(candidates) {
	case 0:
		return MatchResult[E]{Kind: NoMatch}
	case 1:
		return MatchResult[E]{Kind: Unique, Candidates: candidates}
	default:
		return MatchResult[E]{Kind: Ambiguous, Candidates: candidates}
	}
}

// MatchInventory matches name against inventory entries.
func MatchInventory(name string, inventory []pantry.InventoryEntry) MatchResult[pantry.InventoryEntry] {
	return Match(name, inventory)
}

// MatchShoppingList matches name against shopping list entries.
func MatchShoppingList(name string, list []pantry.ShoppingListEntry) MatchResult[pantry.ShoppingListEntry] {
	return Match(name, list)
}

func tokensOverlap(query, candidate []string) bool {
	for _, q := range query {
		for _, c := range candidate {
			if strings.Contains(c, q) || strings.Contains(q, c) {
				return true
			}
		}
	}
	return false
}

// Classify decides the status of one ingredient. The first rule that applies
// wins: an inventory match, then a shopping list match, then Missing when
// both a name and a quantity were parsed, and Unparseable otherwise.
//
// For an inventory match the first candidate in snapshot order supplies the
// available quantity. An ingredient without a quantity is always sufficient.
func Classify(name string, required *ParsedQuantity, inventory []pantry.InventoryEntry, list []pantry.ShoppingListEntry) Status {
	if name == "" {
		return Status{Kind: Unparseable}
	}

	if inv := MatchInventory(name, inventory); inv.Matched() {
		available := inv.Candidates[0].Quantity
		return Status{
			Kind:             InInventory,
			Available:        available,
			Sufficient:       required == nil || sufficient(available, required.Value),
			InventoryMatches: inv.Candidates,
		}
	}

	if sl := MatchShoppingList(name, list); sl.Matched() {
		return Status{
			Kind:                InShoppingList,
			ShoppingListMatches: sl.Candidates,
		}
	}

	if required != nil {
		return Status{Kind: Missing}
	}
	return Status{Kind: Unparseable}
}
