package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded request. ClientID is set when the request carried a
// bearer token.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	SourceName  string     `json:"source_name,omitempty"`
	MIMEType    string     `json:"mime_type,omitempty"`
	ContentHash string     `json:"content_hash,omitempty"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunInput describes a run to record. A zero ClientID is stored as NULL.
type RunInput struct {
	Kind        string
	SourceName  string
	MIMEType    string
	ContentHash string
	ClientID    uuid.UUID
}

// RunFilter narrows ListRuns. Zero fields match everything.
type RunFilter struct {
	Kind        string
	ContentHash string
	ClientID    uuid.UUID
	Limit       int
}

// Default and maximum page sizes for ListRuns.
const (
	DefaultRunLimit = 20
	MaxRunLimit     = 100
)

// Artifact is a stored artifact. Exactly one of Content and TextContent is set.
type Artifact struct {
	ID          uuid.UUID       `json:"id"`
	RunID       uuid.UUID       `json:"run_id"`
	Step        string          `json:"step"`
	Category    string          `json:"category"`
	Content     json.RawMessage `json:"content,omitempty"`
	TextContent string          `json:"text_content,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ArtifactInput is an artifact saved as part of RecordRun. Content is
// marshaled to JSON when non-nil; otherwise Text is stored verbatim, even
// when empty.
type ArtifactInput struct {
	Step     string
	Category string
	Content  any
	Text     string
}

// Run kinds
const (
	RunKindParse   = "parse"
	RunKindSuggest = "suggest"
	RunKindApply   = "apply"
	RunKindMerge   = "merge"
)

// RunKinds lists every kind a run can be recorded with.
var RunKinds = []string{RunKindParse, RunKindSuggest, RunKindApply, RunKindMerge}

// ValidRunKind reports whether kind is one of RunKinds.
func ValidRunKind(kind string) bool {
	for _, k := range RunKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Artifact steps
const (
	StepRawText      = "raw_text"
	StepMetadata     = "extraction_metadata"
	StepParsed       = "parse_response"
	StepJob          = "job_description"
	StepSuggestions  = "suggestions"
	StepApplyRequest = "apply_request"
	StepApplied      = "applied_text"
)

// Artifact categories
const (
	CategoryIngestion   = "ingestion"
	CategoryParsing     = "parsing"
	CategorySuggestions = "suggestions"
	CategoryOutput      = "output"
)

func (in RunInput) validate() error {
	if !ValidRunKind(in.Kind) {
		return fmt.Errorf("unknown run kind %q", in.Kind)
	}
	return nil
}

func (a ArtifactInput) validate() error {
	if a.Step == "" {
		return fmt.Errorf("artifact step is required")
	}
	if a.Content != nil && a.Text != "" {
		return fmt.Errorf("artifact %s has both JSON and text content", a.Step)
	}
	return nil
}

// normalized clamps Limit into [1, MaxRunLimit].
func (f RunFilter) normalized() RunFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultRunLimit
	case f.Limit > MaxRunLimit:
		f.Limit = MaxRunLimit
	}
	return f
}
