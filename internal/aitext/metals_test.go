package aitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMetals_FullResponse(t *testing.T) {
	t.Parallel()

	raw := "Gold: 0.05 g, Copper: 12.3 g, Silver: 0.30 g. " +
		"Prices: Gold ₹7200 per g, Copper ₹0.9 per g, Silver ₹95 per g."

	val := ParseMetals(raw, nil)

	assert.InDelta(t, 0.05, val.Grams["gold"], 1e-9)
	assert.InDelta(t, 12.3, val.Grams["copper"], 1e-9)
	assert.InDelta(t, 0.30, val.Grams["silver"], 1e-9)
	assert.InDelta(t, 7200.0, val.Prices["gold"], 1e-9)
	assert.InDelta(t, 0.9, val.Prices["copper"], 1e-9)
	assert.InDelta(t, 95.0, val.Prices["silver"], 1e-9)
}

func TestParseMetals_ThousandsSeparator(t *testing.T) {
	t.Parallel()

	val := ParseMetals("Gold: 0.02 g. Prices: Gold ₹7,200 per g.", nil)

	assert.InDelta(t, 0.02, val.Grams["gold"], 1e-9)
	assert.InDelta(t, 7200.0, val.Prices["gold"], 1e-9)
}

func TestParseMetals_UnmatchedDefaults(t *testing.T) {
	t.Parallel()

	val := ParseMetals("The model provided no numbers at all.", nil)

	for _, metal := range TrackedMetals {
		assert.Zero(t, val.Grams[metal], metal)
		assert.InDelta(t, DefaultPrices[metal], val.Prices[metal], 1e-9, metal)
	}
}

func TestParseMetals_ConfiguredBasePrices(t *testing.T) {
	t.Parallel()

	base := map[string]float64{"gold": 6500, "copper": 1.1, "silver": 85}
	val := ParseMetals("Copper: 8.0 g", base)

	assert.InDelta(t, 8.0, val.Grams["copper"], 1e-9)
	assert.InDelta(t, 6500.0, val.Prices["gold"], 1e-9)
	assert.InDelta(t, 1.1, val.Prices["copper"], 1e-9)
	assert.InDelta(t, 85.0, val.Prices["silver"], 1e-9)
}

func TestParseMetals_CaseInsensitive(t *testing.T) {
	t.Parallel()

	val := ParseMetals("gold: 1.5 g and SILVER: 2.25 g", nil)

	assert.InDelta(t, 1.5, val.Grams["gold"], 1e-9)
	assert.InDelta(t, 2.25, val.Grams["silver"], 1e-9)
}

func TestParseMetals_GramFigureNotMistakenForPrice(t *testing.T) {
	t.Parallel()

	// No currency symbol anywhere: prices must stay at baseline even
	// though "Gold: 0.05" looks numeric.
	val := ParseMetals("Gold: 0.05 g, Copper: 12.3 g", nil)

	assert.InDelta(t, DefaultPrices["gold"], val.Prices["gold"], 1e-9)
	assert.InDelta(t, DefaultPrices["copper"], val.Prices["copper"], 1e-9)
}

func TestParseMetals_EmptyInput(t *testing.T) {
	t.Parallel()

	val := ParseMetals("", nil)

	assert.Len(t, val.Grams, 3)
	assert.Len(t, val.Prices, 3)
	assert.Zero(t, val.Grams["gold"])
}
