package aitext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecospark/ewaste-server/internal/model"
)

// TrackedMetals are the metals extracted from valuation responses.
var TrackedMetals = []string{"gold", "copper", "silver"}

// DefaultPrices are the baseline INR-per-gram prices used when the text
// carries no parseable price for a metal.
var DefaultPrices = map[string]float64{
	"gold":   7000.0,
	"copper": 0.9,
	"silver": 90.0,
}

var (
	gramPatterns  = map[string]*regexp.Regexp{}
	pricePatterns = map[string]*regexp.Regexp{}
)

func init() {
	for _, metal := range TrackedMetals {
		// "Gold: 0.05 g" -> grams; "Gold ₹7200" -> price per gram. The
		// currency symbol is required for prices so the gram figure is
		// never mistaken for one.
		gramPatterns[metal] = regexp.MustCompile(fmt.Sprintf(`(?i)%s[:\s]+([0-9.]+)\s*g`, metal))
		pricePatterns[metal] = regexp.MustCompile(fmt.Sprintf(`(?i)%s[:\s]+₹\s*([0-9][0-9,]*(?:\.[0-9]+)?)`, metal))
	}
}

// ParseMetals extracts gram quantities and unit prices for each tracked
// metal from raw provider text. Unmatched quantities default to 0.0;
// unmatched prices default to basePrices (or DefaultPrices when the caller
// supplies none). Thousands separators are stripped before conversion.
func ParseMetals(raw string, basePrices map[string]float64) model.MetalValuation {
	val := model.MetalValuation{
		Grams:  make(map[string]float64, len(TrackedMetals)),
		Prices: make(map[string]float64, len(TrackedMetals)),
	}

	for _, metal := range TrackedMetals {
		val.Grams[metal] = 0.0

		price, ok := basePrices[metal]
		if !ok {
			price = DefaultPrices[metal]
		}
		val.Prices[metal] = price

		if m := gramPatterns[metal].FindStringSubmatch(raw); m != nil {
			if g, err := strconv.ParseFloat(m[1], 64); err == nil {
				val.Grams[metal] = g
			}
		}
		if m := pricePatterns[metal].FindStringSubmatch(raw); m != nil {
			if p, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				val.Prices[metal] = p
			}
		}
	}

	return val
}
