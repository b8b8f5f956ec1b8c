package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/server/middleware"
	"github.com/jonathan/resume-tailor/internal/suggestions"
	"github.com/jonathan/resume-tailor/internal/types"
	embedded "github.com/jonathan/resume-tailor/schemas"
)

// ApplyResponse is the result of POST /api/apply.
type ApplyResponse struct {
	RunID          string               `json:"run_id,omitempty"`
	ModifiedResume string               `json:"modified_resume"`
	Applied        []types.SuggestionID `json:"applied"`
	Unmatched      []types.SuggestionID `json:"unmatched,omitempty"`
	Overlapping    []types.SuggestionID `json:"overlapping,omitempty"`
}

// SuggestionsResponse is the result of POST /api/suggestions and /api/merge.
type SuggestionsResponse struct {
	RunID string `json:"run_id,omitempty"`
	types.SuggestionResponse
}

// RunResponse is the result of GET /api/runs/{id}.
type RunResponse struct {
	Run       *db.Run       `json:"run"`
	Artifacts []db.Artifact `json:"artifacts"`
}

// handleParse extracts and structures an uploaded résumé. It accepts a
// multipart form with a "file" part or a JSON ParseTextRequest.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	data, filename, mimeType, err := s.readDocument(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	result, err := s.pipeline.Run(r.Context(), data, filename, mimeType)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	resp := result.Parse
	if s.tailor != nil && resp.NeedsResegmentation {
		refined, err := s.tailor.Refine(r.Context(), resp)
		if err != nil {
			log.Printf("Warning: re-segmentation failed, keeping heuristic sections (request_id=%s): %v", requestID(r), err)
		} else if refined != nil {
			resp = refined
		}
	}

	resp.RunID = s.record(r, db.RunInput{
		Kind:        db.RunKindParse,
		SourceName:  result.Metadata.Filename,
		MIMEType:    result.Metadata.MIMEType,
		ContentHash: result.Metadata.ContentHash,
	}, []db.ArtifactInput{
		{Step: db.StepRawText, Category: db.CategoryIngestion, Text: result.RawText},
		{Step: db.StepMetadata, Category: db.CategoryIngestion, Content: result.Metadata},
		{Step: db.StepParsed, Category: db.CategoryParsing, Content: resp},
	})

	s.jsonResponse(w, http.StatusOK, resp)
}

// readDocument returns the document bytes, filename and declared MIME type.
func (s *Server) readDocument(r *http.Request) ([]byte, string, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, "", "", tooLarge
			}
			return nil, "", "", &ErrValidation{Field: "file", Message: "invalid multipart form: " + err.Error()}
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", &ErrValidation{Field: "file", Message: "is required"}
		}
		defer file.Close() //nolint:errcheck

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to read upload: %w", err)
		}
		if len(data) == 0 {
			return nil, "", "", &ErrValidation{Field: "file", Message: "is empty"}
		}
		mimeType := r.FormValue("content_type")
		if mimeType == "" {
			mimeType = header.Header.Get("Content-Type")
		}
		return data, header.Filename, mimeType, nil

	case "application/json", "":
		var req types.ParseTextRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, "", "", err
		}
		if err := req.Validate(); err != nil {
			return nil, "", "", toValidationError(err)
		}
		mimeType := req.ContentType
		if mimeType == "" {
			mimeType = ingestion.MIMEPlain
		}
		return []byte(req.Text), "", mimeType, nil

	default:
		return nil, "", "", &ErrValidation{Field: "Content-Type", Message: "must be application/json or multipart/form-data"}
	}
}

// handleApply applies the accepted subset of a suggestion list.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if err := schemas.ValidateBytes(embedded.ApplyRequest, body); err != nil {
		s.failure(w, r, err)
		return
	}

	var req types.ApplyChangesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.failure(w, r, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, toValidationError(err))
		return
	}

	accepted := suggestions.SelectAccepted(req.AllSuggestions, req.AcceptedSuggestionIDs)
	outcome := suggestions.Plan(req.OriginalResume, accepted)
	modified, err := suggestions.Splice(req.OriginalResume, outcome.Replacements)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if s.verbose {
		log.Printf("[VERBOSE] Applied %d of %d accepted suggestions (%d unmatched, %d overlapping)",
			len(accepted)-len(outcome.Unmatched), len(accepted), len(outcome.Unmatched), len(outcome.Overlapping))
	}

	resp := ApplyResponse{
		ModifiedResume: modified,
		Applied:        appliedIDs(outcome),
		Unmatched:      outcome.Unmatched,
		Overlapping:    outcome.Overlapping,
	}
	resp.RunID = s.record(r, db.RunInput{
		Kind:        db.RunKindApply,
		ContentHash: ingestion.HashContent([]byte(req.OriginalResume)),
	}, []db.ArtifactInput{
		{Step: db.StepApplyRequest, Category: db.CategorySuggestions, Content: json.RawMessage(body)},
		{Step: db.StepApplied, Category: db.CategoryOutput, Text: modified},
	})

	s.jsonResponse(w, http.StatusOK, resp)
}

// appliedIDs lists the suggestions that produced at least one replacement,
// in the order they were planned.
func appliedIDs(outcome *suggestions.Outcome) []types.SuggestionID {
	ids := []types.SuggestionID{}
	seen := make(map[types.SuggestionID]bool)
	for _, rep := range outcome.Replacements {
		if !seen[rep.SuggestionID] {
			seen[rep.SuggestionID] = true
			ids = append(ids, rep.SuggestionID)
		}
	}
	return ids
}

// handleMerge folds emphasis suggestions into rewrite suggestions.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req types.MergeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, toValidationError(err))
		return
	}

	merged := suggestions.Merge(req.Rewrites, req.Emphasis)
	if merged == nil {
		merged = []types.EditSuggestion{}
	}

	resp := SuggestionsResponse{SuggestionResponse: types.SuggestionResponse{Suggestions: merged}}
	resp.RunID = s.record(r, db.RunInput{Kind: db.RunKindMerge}, []db.ArtifactInput{
		{Step: db.StepSuggestions, Category: db.CategorySuggestions, Content: resp.SuggestionResponse},
	})

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSuggestions asks the text-generation service for tailoring edits.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if s.tailor == nil {
		s.failure(w, r, &ErrUnavailable{Feature: "suggestion generation"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req types.SuggestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, toValidationError(err))
		return
	}

	list, err := s.tailor.Suggest(r.Context(), &req)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if list == nil {
		list = []types.EditSuggestion{}
	}

	resp := SuggestionsResponse{SuggestionResponse: types.SuggestionResponse{Suggestions: list}}
	resp.RunID = s.record(r, db.RunInput{
		Kind:        db.RunKindSuggest,
		ContentHash: ingestion.HashContent([]byte(req.ResumeText)),
	}, []db.ArtifactInput{
		{Step: db.StepRawText, Category: db.CategoryIngestion, Text: req.ResumeText},
		{Step: db.StepJob, Category: db.CategoryIngestion, Text: req.JobDescription},
		{Step: db.StepSuggestions, Category: db.CategorySuggestions, Content: resp.SuggestionResponse},
	})

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListRuns returns recent runs, newest first. Query parameters narrow
// the listing: kind, content_hash, mine=true (runs recorded under the caller's
// token) and limit.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.failure(w, r, err)
		return
	}
	filter, err := runFilter(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

func runFilter(r *http.Request) (db.RunFilter, error) {
	q := r.URL.Query()
	filter := db.RunFilter{Limit: db.DefaultRunLimit, ContentHash: q.Get("content_hash")}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, &ErrValidation{Field: "limit", Message: "must be a positive integer"}
		}
		filter.Limit = min(n, db.MaxRunLimit)
	}
	if kind := q.Get("kind"); kind != "" {
		if !db.ValidRunKind(kind) {
			return filter, &ErrValidation{Field: "kind", Message: fmt.Sprintf("must be one of %v", db.RunKinds)}
		}
		filter.Kind = kind
	}
	if mine, _ := strconv.ParseBool(q.Get("mine")); mine {
		clientID, err := middleware.GetClientID(r)
		if err != nil {
			return filter, &ErrValidation{Field: "mine", Message: "requires an authenticated request"}
		}
		filter.ClientID = clientID
	}
	return filter, nil
}

// handleGetRun returns a run with its artifacts
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := s.lookupRun(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if run == nil {
		s.failure(w, r, &ErrRunNotFound{RunID: runID})
		return
	}

	artifacts, err := s.store.ListArtifacts(r.Context(), runID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if artifacts == nil {
		artifacts = []db.Artifact{}
	}

	s.jsonResponse(w, http.StatusOK, RunResponse{Run: run, Artifacts: artifacts})
}

// handleGetRunParse returns the parse result stored for a run
func (s *Server) handleGetRunParse(w http.ResponseWriter, r *http.Request) {
	runID, err := s.lookupRun(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	resp, err := s.store.GetParseResponseByRunID(r.Context(), runID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if resp == nil {
		s.failure(w, r, &ErrRunNotFound{RunID: runID})
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetRunSuggestions returns the suggestion list stored for a suggest
// or merge run.
func (s *Server) handleGetRunSuggestions(w http.ResponseWriter, r *http.Request) {
	runID, err := s.lookupRun(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	list, err := s.store.GetSuggestionsByRunID(r.Context(), runID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if list == nil {
		s.failure(w, r, &ErrRunNotFound{RunID: runID})
		return
	}
	s.jsonResponse(w, http.StatusOK, SuggestionsResponse{RunID: runID.String(), SuggestionResponse: *list})
}

// handleDeleteRun deletes a run and its artifacts
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, err := s.lookupRun(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	deleted, err := s.store.DeleteRun(r.Context(), runID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if !deleted {
		s.failure(w, r, &ErrRunNotFound{RunID: runID})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// lookupRun checks that runs are stored and parses the {id} path value.
func (s *Server) lookupRun(r *http.Request) (uuid.UUID, error) {
	if err := s.requireStore(); err != nil {
		return uuid.Nil, err
	}
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid run ID format"}
	}
	return runID, nil
}

func (s *Server) requireStore() error {
	if s.store == nil {
		return &ErrUnavailable{Feature: "run storage"}
	}
	return nil
}

// record persists a run when a store is configured and returns its ID.
// Persistence failures are logged and do not fail the request.
func (s *Server) record(r *http.Request, input db.RunInput, artifacts []db.ArtifactInput) string {
	if s.store == nil {
		return ""
	}
	if clientID, err := middleware.GetClientID(r); err == nil {
		input.ClientID = clientID
	}
	runID, err := s.store.RecordRun(r.Context(), input, artifacts)
	if err != nil {
		log.Printf("Warning: failed to record %s run (request_id=%s): %v", input.Kind, requestID(r), err)
		return ""
	}
	return runID.String()
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// toValidationError reports the first failed struct tag as an ErrValidation.
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Namespace(), Message: fmt.Sprintf("failed '%s' check", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
