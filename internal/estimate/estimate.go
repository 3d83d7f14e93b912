// Package estimate computes scrap valuations and credit points from parsed
// metal content. Pure math, no I/O.
package estimate

import (
	"math"

	"github.com/ecospark/ewaste-server/internal/model"
)

const (
	// yearlyDecay is the linear depreciation applied per year of age.
	yearlyDecay = 0.05
	// depreciationFloor is the minimum fraction of base value retained.
	depreciationFloor = 0.3
	// pointsPerGram converts recoverable metal grams to credit points.
	pointsPerGram = 10
)

// Valuation is a monetary estimate for a device's recoverable metals.
type Valuation struct {
	BaseValue          float64 `json:"base_value"`
	DepreciationFactor float64 `json:"depreciation_factor"`
	EstimatedPayout    float64 `json:"estimated_payout"`
}

// Estimate combines metal quantities and unit prices with an age-based
// depreciation curve: 5% per year, floored at 30% of base value. Monetary
// outputs are rounded to 2 decimal places for display.
func Estimate(val model.MetalValuation, ageYears float64) Valuation {
	var base float64
	for metal, grams := range val.Grams {
		base += grams * val.Prices[metal]
	}

	factor := math.Max(depreciationFloor, 1-yearlyDecay*ageYears)

	return Valuation{
		BaseValue:          round2(base),
		DepreciationFactor: factor,
		EstimatedPayout:    round2(base * factor),
	}
}

// Points converts a device's recoverable metal grams into credit points.
func Points(metalValueGrams float64) int {
	return int(math.Round(metalValueGrams * pointsPerGram))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
