package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		line     string
		expected ParsedQuantity
	}{
		{"2 cups flour", ParsedQuantity{Value: 2, Span: "2", Unit: "cups", Start: 0, End: 1}},
		{"1 1/2 cups sugar", ParsedQuantity{Value: 1.5, Span: "1 1/2", Unit: "cups", Start: 0, End: 5}},
		{"3/4 tsp salt", ParsedQuantity{Value: 0.75, Span: "3/4", Unit: "tsp", Start: 0, End: 3}},
		{"Add 2.5 lbs potatoes", ParsedQuantity{Value: 2.5, Span: "2.5", Unit: "lbs", Start: 4, End: 7}},
		{"2 eggs", ParsedQuantity{Value: 2, Span: "2", Start: 0, End: 1}},
		{"12oz steak", ParsedQuantity{Value: 12, Span: "12", Unit: "oz", Start: 0, End: 2}},
		{"2 Tbsp butter", ParsedQuantity{Value: 2, Span: "2", Unit: "Tbsp", Start: 0, End: 1}},
		{"1 garlic clove", ParsedQuantity{Value: 1, Span: "1", Start: 0, End: 1}},
		{"2 cans beans", ParsedQuantity{Value: 2, Span: "2", Unit: "cans", Start: 0, End: 1}},
		{"100 grams rice", ParsedQuantity{Value: 100, Span: "100", Unit: "grams", Start: 0, End: 3}},
		{"2 tablespoons honey", ParsedQuantity{Value: 2, Span: "2", Unit: "tablespoons", Start: 0, End: 1}},
		{"pinch of salt, about 1/8 tsp", ParsedQuantity{Value: 0.125, Span: "1/8", Unit: "tsp", Start: 21, End: 24}},
		{"1 1/0 cup flour or 3 eggs", ParsedQuantity{Value: 3, Span: "3", Start: 19, End: 20}},
		{"1/0 cup, then 2 tsp salt", ParsedQuantity{Value: 2, Span: "2", Unit: "tsp", Start: 14, End: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseQuantity(tt.line)
			require.True(t, ok)
			assert.InDelta(t, tt.expected.Value, got.Value, 1e-9)
			assert.Equal(t, tt.expected.Span, got.Span)
			assert.Equal(t, tt.expected.Unit, got.Unit)
			assert.Equal(t, tt.expected.Start, got.Start)
			assert.Equal(t, tt.expected.End, got.End)
			assert.Equal(t, tt.expected.Span, tt.line[got.Start:got.End])
		})
	}
}

func TestParseQuantity_NoMatch(t *testing.T) {
	for _, line := range []string{"salt to taste", "", "a handful of basil", "1/0 cup water"} {
		t.Run(line, func(t *testing.T) {
			_, ok := ParseQuantity(line)
			assert.False(t, ok)
		})
	}
}

func TestSameUnit(t *testing.T) {
	assert.True(t, SameUnit("cups", "Cup"))
	assert.True(t, SameUnit("pinches", "pinch"))
	assert.True(t, SameUnit("", "lb"))
	assert.True(t, SameUnit("cloves", "cloves"))
	assert.False(t, SameUnit("cup", "lb"))
}
