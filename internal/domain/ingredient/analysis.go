// Package ingredient is the ingredient text engine: quantity parsing,
// fraction conversion, name normalization, serving scaling and the
// reconciliation of recipe lines against pantry snapshots.
//
// Everything here is pure. Callers supply snapshots and decide what to do
// with ambiguous matches.
package ingredient

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alchemorsel/pantry/internal/domain/pantry"
)

// StatusKind is the availability of one ingredient.
type StatusKind int

const (
	Unparseable StatusKind = iota
	Missing
	InShoppingList
	InInventory
)

var statusKindNames = [...]string{
	Unparseable:    "unparseable",
	Missing:        "missing",
	InShoppingList: "in_shopping_list",
	InInventory:    "in_inventory",
}

func (k StatusKind) String() string {
	if k < 0 || int(k) >= len(statusKindNames) {
		return "unknown"
	}
	return statusKindNames[k]
}

// MarshalText encodes the kind by name
func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *StatusKind) UnmarshalText(text []byte) error {
	for i, name := range statusKindNames {
		if name == string(text) {
			*k = StatusKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status kind %q", text)
}

// Status is the classification of one ingredient. Available and Sufficient
// are only meaningful for InInventory.
type Status struct {
	Kind                StatusKind                 `json:"kind"`
	Available           float64                    `json:"available"`
	Sufficient          bool                       `json:"sufficient"`
	InventoryMatches    []pantry.InventoryEntry    `json:"inventory_matches,omitempty"`
	ShoppingListMatches []pantry.ShoppingListEntry `json:"shopping_list_matches,omitempty"`
}

// Ambiguous reports whether the deciding collection had more than one match.
func (s Status) Ambiguous() bool {
	switch s.Kind {
	case InInventory:
		return len(s.InventoryMatches) > 1
	case InShoppingList:
		return len(s.ShoppingListMatches) > 1
	default:
		return false
	}
}

// ParsedIngredient holds what could be extracted from a line.
type ParsedIngredient struct {
	Name     string          `json:"name"`
	Quantity *ParsedQuantity `json:"quantity,omitempty"`
}

// IngredientAnalysis is the result for the line at Index.
type IngredientAnalysis struct {
	Index    int               `json:"index"`
	Original string            `json:"original"`
	Parsed   *ParsedIngredient `json:"parsed,omitempty"`
	Status   Status            `json:"status"`
}

// Summary counts analyses per status for badges like "3 missing".
type Summary struct {
	Total          int `json:"total"`
	InInventory    int `json:"in_inventory"`
	Insufficient   int `json:"insufficient"`
	InShoppingList int `json:"in_shopping_list"`
	Missing        int `json:"missing"`
	Unparseable    int `json:"unparseable"`
}

// Report is an analysis of a whole recipe against one snapshot.
type Report struct {
	Items      []IngredientAnalysis `json:"items"`
	Summary    Summary              `json:"summary"`
	Generation uint64               `json:"generation"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
}

// StaleAgainst reports whether the pantry has changed since the report's
// snapshot was taken.
func (r Report) StaleAgainst(current uint64) bool {
	return r.Generation != current
}

// AnalyzeLine parses and classifies a single line.
func AnalyzeLine(line string, inventory []pantry.InventoryEntry, list []pantry.ShoppingListEntry) IngredientAnalysis {
	a := IngredientAnalysis{Original: line}

	name := Normalize(line)
	var required *ParsedQuantity
	if pq, ok := ParseQuantity(line); ok {
		required = &pq
	}

	if name != "" || required != nil {
		a.Parsed = &ParsedIngredient{Name: name, Quantity: required}
	}
	a.Status = Classify(name, required, inventory, list)
	return a
}

// Analyze classifies every line. The result is index-aligned with lines.
func Analyze(lines []string, inventory []pantry.InventoryEntry, list []pantry.ShoppingListEntry) []IngredientAnalysis {
	out := make([]IngredientAnalysis, len(lines))
	for i, line := range lines {
		out[i] = AnalyzeLine(line, inventory, list)
		out[i].Index = i
	}
	return out
}

// Summarize counts the analyses per status.
func Summarize(items []IngredientAnalysis) Summary {
	s := Summary{Total: len(items)}
	for _, item := range items {
		switch item.Status.Kind {
		case InInventory:
			s.InInventory++
			if !item.Status.Sufficient {
				s.Insufficient++
			}
		case InShoppingList:
			s.InShoppingList++
		case Missing:
			s.Missing++
		default:
			s.Unparseable++
		}
	}
	return s
}

// AnalyzeSnapshot analyzes lines against snap and stamps the report with the
// snapshot's generation so callers can tell when it goes stale.
func AnalyzeSnapshot(lines []string, snap pantry.Snapshot) Report {
	items := Analyze(lines, snap.Inventory, snap.ShoppingList)
	return Report{
		Items:      items,
		Summary:    Summarize(items),
		Generation: snap.Generation,
		AnalyzedAt: snap.TakenAt,
	}
}

func sufficient(available, required float64) bool {
	return decimal.NewFromFloat(available).GreaterThanOrEqual(decimal.NewFromFloat(required))
}
