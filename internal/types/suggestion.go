//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ApplyTo selects which occurrences of an anchor an edit targets.
type ApplyTo string

const (
	// ApplyFirst targets only the earliest occurrence (default).
	ApplyFirst ApplyTo = "first"
	// ApplyAll targets every occurrence.
	ApplyAll ApplyTo = "all"
)

// Priority levels for suggestions
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// SuggestionID is a suggestion identifier. Model output sometimes encodes it as a
// string, so both "3" and 3 decode to the same value.
type SuggestionID int

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (id *SuggestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid suggestion id %q: %w", s, err)
		}
		*id = SuggestionID(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*id = SuggestionID(int(f))
	return nil
}

// EditSuggestion is a single model-generated edit: find OriginalText (whitespace and
// case tolerant) and replace it with SuggestedText. An empty SuggestedText deletes.
type EditSuggestion struct {
	ID            SuggestionID `json:"id"`
	Section       string       `json:"section,omitempty"`
	OriginalText  string       `json:"original_text"`
	SuggestedText string       `json:"suggested_text"`
	Reason        string       `json:"reason,omitempty"`
	Priority      string       `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	ApplyTo       ApplyTo      `json:"apply_to,omitempty" validate:"omitempty,oneof=first all"`
	ContextBefore string       `json:"context_before,omitempty"`
}

// Validate validates the EditSuggestion using the validator.
func (s *EditSuggestion) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// Targets returns the effective ApplyTo value.
func (s *EditSuggestion) Targets() ApplyTo {
	if s.ApplyTo == ApplyAll {
		return ApplyAll
	}
	return ApplyFirst
}

// MaxSuggestionID returns the largest ID in the list, or 0 for an empty list.
func MaxSuggestionID(list []EditSuggestion) SuggestionID {
	var maxID SuggestionID
	for _, s := range list {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID
}

// SuggestionResponse represents a list of suggestions returned to a caller.
type SuggestionResponse struct {
	Suggestions []EditSuggestion `json:"suggestions"`
}

// ApplyChangesRequest applies the accepted subset of a suggestion list to a résumé.
type ApplyChangesRequest struct {
	OriginalResume        string           `json:"original_resume" validate:"required"`
	AcceptedSuggestionIDs []SuggestionID   `json:"accepted_suggestion_ids"`
	AllSuggestions        []EditSuggestion `json:"all_suggestions" validate:"dive"`
}

// Validate validates the ApplyChangesRequest using the validator.
func (r *ApplyChangesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MergeRequest carries independently generated rewrite and emphasis suggestions.
type MergeRequest struct {
	Rewrites []EditSuggestion `json:"rewrites" validate:"dive"`
	Emphasis []EditSuggestion `json:"emphasis" validate:"dive"`
}

// Validate validates the MergeRequest using the validator.
func (r *MergeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SuggestRequest asks the text-generation collaborator for tailoring suggestions.
type SuggestRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
}

// Validate validates the SuggestRequest using the validator.
func (r *SuggestRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ParseTextRequest carries raw résumé text for the structuring pipeline.
type ParseTextRequest struct {
	Text        string `json:"text" validate:"required"`
	ContentType string `json:"content_type,omitempty"`
}

// Validate validates the ParseTextRequest using the validator.
func (r *ParseTextRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ParseResponse is the structured result of parsing a résumé.
type ParseResponse struct {
	RunID               string            `json:"run_id,omitempty"`
	Document            *ParsedDocument   `json:"document"`
	Validation          SectionValidation `json:"validation"`
	Contact             *ExtractedContact `json:"contact,omitempty"`
	NeedsResegmentation bool              `json:"needs_resegmentation"`
	Resegmented         bool              `json:"resegmented"`
}
