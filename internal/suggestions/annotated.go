package suggestions

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// EmphasisReason is attached to suggestions derived from an annotated résumé.
const EmphasisReason = "Emphasize keywords relevant to the target role"

// EmphasisFromAnnotated turns a bold-annotated copy of original into emphasis
// suggestions, one per annotated line whose plain form still occurs in original.
// Each suggestion's section is the nearest "## " header above the line.
func EmphasisFromAnnotated(original, annotated string) []types.EditSuggestion {
	out := []types.EditSuggestion{}
	seen := make(map[string]bool)
	section := ""

	for _, line := range strings.Split(annotated, "\n") {
		trimmed := strings.TrimSpace(line)
		if title, ok := topHeaderTitle(trimmed); ok {
			section = StripBold(title)
			continue
		}
		if strings.HasPrefix(trimmed, "#") || !strings.Contains(trimmed, boldMarker) {
			continue
		}
		plain := strings.TrimSpace(StripBold(trimmed))
		if plain == "" || plain == trimmed {
			continue
		}
		key := section + "\x00" + plain
		if seen[key] {
			continue
		}
		if p := anchorPattern(plain); p == nil || !p.MatchString(original) {
			continue
		}
		seen[key] = true
		out = append(out, types.EditSuggestion{
			ID:            types.SuggestionID(len(out) + 1),
			Section:       section,
			OriginalText:  plain,
			SuggestedText: trimmed,
			Reason:        EmphasisReason,
			Priority:      types.PriorityLow,
		})
	}
	return out
}
