package gemini

import (
	"errors"
	"strings"
)

var errEmptyResponse = errors.New("empty response text")

// preferredOrder lists models to try first, most capable/fastest variants
// leading. Discovery order breaks ties for everything else.
var preferredOrder = []string{
	"gemini-1.5-flash-002",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro-002",
	"gemini-1.5-pro-latest",
	"gemini-pro",
}

// supportsText reports whether a model's generation methods include
// free-text generation. Older API surfaces used generate_text.
func supportsText(methods []string) bool {
	for _, m := range methods {
		if m == "generateContent" || m == "generate_text" {
			return true
		}
	}
	return false
}

// RankModels orders candidate model names: any candidate matching the
// preference list (exactly or as a "models/<name>" suffix) first, in
// preference order, then the remaining candidates in discovery order.
func RankModels(candidates []string) []string {
	ordered := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, pref := range preferredOrder {
		for _, cand := range candidates {
			if seen[cand] {
				continue
			}
			if cand == pref || strings.HasSuffix(cand, "/"+pref) {
				ordered = append(ordered, cand)
				seen[cand] = true
			}
		}
	}
	for _, cand := range candidates {
		if !seen[cand] {
			ordered = append(ordered, cand)
			seen[cand] = true
		}
	}
	return ordered
}
