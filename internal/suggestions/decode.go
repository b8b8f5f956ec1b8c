package suggestions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Skip records a suggestion that was left out of a decoded list.
type Skip struct {
	Index  int
	ID     types.SuggestionID
	Reason string
}

func (s Skip) String() string {
	if s.ID > 0 {
		return fmt.Sprintf("suggestion %d: %s", s.ID, s.Reason)
	}
	return fmt.Sprintf("suggestion at index %d: %s", s.Index, s.Reason)
}

// Decode reads a suggestion list encoded either as a bare JSON array or as an
// object with a "suggestions" field. Unusable items are skipped, see DecodeReport.
func Decode(data []byte) ([]types.EditSuggestion, error) {
	list, _, err := DecodeReport(data)
	return list, err
}

// DecodeReport is Decode that also reports the skipped items. Only a payload that is
// not a suggestion list at all is an error. An item is skipped when it is not an
// object, has a blank original_text, has no suggested_text, or names an unknown
// apply_to. Priorities are matched case-insensitively and unknown ones are cleared.
// A missing apply_to defaults to first.
func DecodeReport(data []byte) ([]types.EditSuggestion, []Skip, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil, &DecodeError{Message: "empty suggestion payload"}
	}

	var items []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, &DecodeError{Message: "failed to unmarshal suggestion array", Cause: err}
		}
	} else {
		var envelope struct {
			Suggestions []json.RawMessage `json:"suggestions"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, nil, &DecodeError{Message: "failed to unmarshal suggestion response", Cause: err}
		}
		items = envelope.Suggestions
	}

	list := make([]types.EditSuggestion, 0, len(items))
	var skipped []Skip
	for i, raw := range items {
		s, reason := decodeItem(raw)
		if reason != "" {
			skipped = append(skipped, Skip{Index: i, ID: s.ID, Reason: reason})
			continue
		}
		list = append(list, s)
	}
	return list, skipped, nil
}

func decodeItem(raw json.RawMessage) (types.EditSuggestion, string) {
	var s types.EditSuggestion
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Sprintf("not a suggestion object: %v", err)
	}
	var present struct {
		SuggestedText *string `json:"suggested_text"`
	}
	_ = json.Unmarshal(raw, &present)

	if strings.TrimSpace(s.OriginalText) == "" {
		return s, "missing original_text"
	}
	if present.SuggestedText == nil {
		return s, "missing suggested_text"
	}

	s.Priority = normalizePriority(s.Priority)
	s.ApplyTo = types.ApplyTo(strings.ToLower(strings.TrimSpace(string(s.ApplyTo))))
	if s.ApplyTo == "" {
		s.ApplyTo = types.ApplyFirst
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Sprintf("invalid: %v", err)
	}
	return s, ""
}

func normalizePriority(p string) string {
	switch p = strings.ToLower(strings.TrimSpace(p)); p {
	case types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
		return p
	default:
		return ""
	}
}

// AssignMissingIDs gives every suggestion without a positive, unique ID a fresh
// one above the current maximum. Existing unique IDs are left untouched.
func AssignMissingIDs(list []types.EditSuggestion) []types.EditSuggestion {
	next := types.MaxSuggestionID(list) + 1
	seen := make(map[types.SuggestionID]bool, len(list))
	for i := range list {
		if list[i].ID <= 0 || seen[list[i].ID] {
			list[i].ID = next
			next++
		}
		seen[list[i].ID] = true
	}
	return list
}
