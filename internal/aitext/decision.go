// Package aitext extracts structured fields from free-form generative-text
// output. Parsers are pure and never fail: every unmatched field takes its
// documented default, because the upstream generator is unpredictable and
// callers must always render a complete page.
package aitext

import "strings"

// Marker is the token that introduces a recommendation label.
const Marker = "RECOMMENDATION:"

// keywordScanWindow is how many leading characters are scanned for
// category keywords when the marker is absent.
const keywordScanWindow = 100

// Keyword maps a lowercase trigger word to its category. Order in a
// keyword list is priority order: the first keyword found wins.
type Keyword struct {
	Word     string
	Category string
}

// DecisionOptions configures ParseDecision for one feature's category set.
type DecisionOptions struct {
	Keywords []Keyword
	Fallback string
}

// RecycleReuseOptions is the category set for the recycle-or-reuse helper.
func RecycleReuseOptions() DecisionOptions {
	return DecisionOptions{
		Keywords: []Keyword{
			{Word: "reuse", Category: "Reuse"},
			{Word: "recycle", Category: "Recycle"},
		},
		Fallback: "Recycle",
	}
}

// ReuseActionOptions is the category set for the reuse marketplace
// (sell/donate/repair/recycle).
func ReuseActionOptions() DecisionOptions {
	return DecisionOptions{
		Keywords: []Keyword{
			{Word: "sell", Category: "Sell"},
			{Word: "donate", Category: "Donate"},
			{Word: "repair", Category: "Repair"},
			{Word: "recycle", Category: "Recycle"},
		},
		Fallback: "Recycle",
	}
}

// ParseDecision extracts a recommendation category and rationale from raw
// provider text. When the marker line is present, the label is taken from
// the text after the marker and the rationale is the remainder after the
// label line. Otherwise the leading window of the text is scanned for
// category keywords in priority order. The category is always a member of
// the configured set; unmatched text yields the fallback category with the
// whole text as rationale.
func ParseDecision(raw string, opts DecisionOptions) (category, rationale string) {
	raw = strings.TrimSpace(raw)

	if idx := strings.Index(strings.ToUpper(raw), Marker); idx >= 0 {
		rest := strings.TrimSpace(raw[idx+len(Marker):])
		labelLine := rest
		rationale = rest
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			labelLine = strings.TrimSpace(rest[:nl])
			if tail := strings.TrimSpace(rest[nl+1:]); tail != "" {
				rationale = tail
			}
		}
		if cat, ok := matchKeyword(labelLine, opts.Keywords); ok {
			return cat, rationale
		}
		return opts.Fallback, rationale
	}

	window := raw
	if len(window) > keywordScanWindow {
		window = window[:keywordScanWindow]
	}
	if cat, ok := matchKeyword(window, opts.Keywords); ok {
		return cat, raw
	}
	return opts.Fallback, raw
}

// matchKeyword returns the category of the first keyword, in priority
// order, found anywhere in s (case-insensitive).
func matchKeyword(s string, keywords []Keyword) (string, bool) {
	ls := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(ls, kw.Word) {
			return kw.Category, true
		}
	}
	return "", false
}
