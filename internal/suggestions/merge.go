package suggestions

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Merge folds emphasis suggestions into rewrite suggestions. An emphasis suggestion
// whose anchor matches a rewrite has its bolding transplanted onto that rewrite's
// suggested text and its reason appended. Unmatched emphasis suggestions are kept
// as standalone suggestions with fresh IDs after the largest existing one.
//
// Anchors are matched against each rewrite in order of preference: its suggested
// text exactly, then ignoring bullets and bold markers, then by containment in
// either direction, and finally against the rewrite's original text.
func Merge(rewrites, emphasis []types.EditSuggestion) []types.EditSuggestion {
	candidates := len(rewrites)
	nextID := types.MaxSuggestionID(rewrites)

	for _, e := range emphasis {
		if strings.TrimSpace(e.OriginalText) == "" {
			continue
		}
		if i := findRewrite(rewrites[:candidates], e.OriginalText); i >= 0 {
			r := &rewrites[i]
			r.SuggestedText = ApplyBoldingPattern(e.SuggestedText, r.SuggestedText)
			r.Reason = joinReasons(r.Reason, e.Reason)
			continue
		}
		nextID++
		e.ID = nextID
		rewrites = append(rewrites, e)
	}
	return rewrites
}

func findRewrite(rewrites []types.EditSuggestion, anchor string) int {
	anchor = strings.TrimSpace(anchor)
	key := compareKey(anchor)

	for i, r := range rewrites {
		if strings.TrimSpace(r.SuggestedText) == anchor {
			return i
		}
	}
	for i, r := range rewrites {
		if k := compareKey(r.SuggestedText); k != "" && k == key {
			return i
		}
	}
	for i, r := range rewrites {
		k := compareKey(r.SuggestedText)
		if k != "" && key != "" && (strings.Contains(k, key) || strings.Contains(key, k)) {
			return i
		}
	}
	loose := looseKey(anchor)
	for i, r := range rewrites {
		if strings.TrimSpace(r.OriginalText) == anchor {
			return i
		}
		if k := looseKey(r.OriginalText); k != "" && k == loose {
			return i
		}
	}
	return -1
}

// compareKey drops bullets and bold markers so emphasis anchors can be compared
// with rewritten text.
func compareKey(s string) string {
	return stripBullet(StripBold(s))
}

func looseKey(s string) string {
	return collapseWhitespace(strings.ToLower(compareKey(s)))
}

func joinReasons(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case b == "" || strings.Contains(a, b):
		return a
	case a == "":
		return b
	}
	return a + "; " + b
}
