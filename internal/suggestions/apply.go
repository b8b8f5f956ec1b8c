// Package suggestions applies model-generated edit suggestions to résumé text and
// reconciles independently generated rewrite and emphasis suggestions.
package suggestions

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// contextWindow is how far back (in bytes) a match is checked for its context_before text.
const contextWindow = 200

// anchorGap matches the runs strings.Fields splits on, so an anchor tokenized on
// Unicode spaces still matches text that was never normalized.
const anchorGap = `[\s\v\x{85}\p{Z}]+`

// Replacement is a splice computed against the unmodified original text.
type Replacement struct {
	Start        int                `json:"start"`
	End          int                `json:"end"`
	Value        string             `json:"value"`
	SuggestionID types.SuggestionID `json:"suggestion_id"`
}

// Outcome describes how a batch of suggestions maps onto a text.
type Outcome struct {
	Replacements []Replacement        `json:"replacements"`
	Unmatched    []types.SuggestionID `json:"unmatched,omitempty"`
	Overlapping  []types.SuggestionID `json:"overlapping,omitempty"`
}

// Apply applies every suggestion as if simultaneously: all offsets are computed
// against original and spliced back to front. Suggestions whose anchor cannot be
// found in their scope are dropped. The only error is an *OffsetError.
func Apply(original string, list []types.EditSuggestion) (string, error) {
	outcome := Plan(original, list)
	return Splice(original, outcome.Replacements)
}

// Plan resolves each suggestion to zero or more replacements without modifying the
// text. When two suggestions target overlapping spans the earlier suggestion wins.
func Plan(original string, list []types.EditSuggestion) *Outcome {
	outcome := &Outcome{Replacements: []Replacement{}}
	headers := splitMarkdownSections(original)

	for i := range list {
		s := &list[i]
		if strings.TrimSpace(s.OriginalText) == "" {
			continue
		}
		pattern := anchorPattern(s.OriginalText)
		if pattern == nil {
			continue
		}

		start, end := searchScope(headers, s.Section, len(original))
		var candidates []Replacement
		for _, m := range pattern.FindAllStringIndex(original[start:end], -1) {
			r := Replacement{Start: start + m[0], End: start + m[1], Value: s.SuggestedText, SuggestionID: s.ID}
			if s.ContextBefore != "" && !precededBy(original, r.Start, s.ContextBefore) {
				continue
			}
			candidates = append(candidates, r)
			if s.Targets() == types.ApplyFirst {
				break
			}
		}
		if len(candidates) == 0 {
			outcome.Unmatched = append(outcome.Unmatched, s.ID)
			continue
		}

		clashed := false
		for _, r := range candidates {
			if overlapsAny(outcome.Replacements, r) {
				clashed = true
				continue
			}
			outcome.Replacements = append(outcome.Replacements, r)
		}
		if clashed {
			outcome.Overlapping = append(outcome.Overlapping, s.ID)
		}
	}
	return outcome
}

// Splice applies replacements to text from the highest offset to the lowest so
// earlier splices never shift the offsets of later ones. Replacements must not
// overlap; any replacement outside text fails the whole call.
func Splice(text string, replacements []Replacement) (string, error) {
	for _, r := range replacements {
		if r.Start < 0 || r.End < r.Start || r.End > len(text) {
			return "", &OffsetError{SuggestionID: r.SuggestionID, Start: r.Start, End: r.End, Length: len(text)}
		}
	}

	ordered := slices.Clone(replacements)
	slices.SortStableFunc(ordered, func(a, b Replacement) int {
		return cmp.Compare(b.Start, a.Start)
	})

	out := text
	for _, r := range ordered {
		out = out[:r.Start] + r.Value + out[r.End:]
	}
	return out, nil
}

// SelectAccepted keeps the suggestions whose IDs were accepted, in list order.
func SelectAccepted(all []types.EditSuggestion, accepted []types.SuggestionID) []types.EditSuggestion {
	ids := make(map[types.SuggestionID]bool, len(accepted))
	for _, id := range accepted {
		ids[id] = true
	}
	out := make([]types.EditSuggestion, 0, len(accepted))
	for _, s := range all {
		if ids[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// anchorPattern builds a case-insensitive literal matcher that tolerates any
// whitespace run between the anchor's tokens.
func anchorPattern(anchor string) *regexp.Regexp {
	tokens := strings.Fields(anchor)
	if len(tokens) == 0 {
		return nil
	}
	for i, tok := range tokens {
		tokens[i] = regexp.QuoteMeta(tok)
	}
	re, err := regexp.Compile(`(?i)` + strings.Join(tokens, anchorGap))
	if err != nil {
		return nil
	}
	return re
}

func precededBy(text string, pos int, context string) bool {
	want := collapseWhitespace(strings.ToLower(context))
	if want == "" {
		return true
	}
	from := pos - contextWindow - len(context)
	if from < 0 {
		from = 0
	}
	for from < pos && !isRuneStart(text[from]) {
		from++
	}
	return strings.Contains(collapseWhitespace(strings.ToLower(text[from:pos])), want)
}

func overlapsAny(accepted []Replacement, r Replacement) bool {
	for _, a := range accepted {
		if r.Start < a.End && a.Start < r.End {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
