// Package tailoring asks the text-generation collaborator for résumé edits and
// segmentation help, then hands its answers to the deterministic packages that
// validate, merge, and apply them.
package tailoring

import (
	"context"
	"log"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/suggestions"
	"github.com/jonathan/resume-tailor/internal/types"
	embedded "github.com/jonathan/resume-tailor/schemas"
)

// DefaultMaxSuggestions caps the rewrite suggestions requested per résumé.
const DefaultMaxSuggestions = 12

// Service coordinates collaborator calls. It holds no per-request state and
// may be shared between goroutines.
type Service struct {
	client         llm.Client
	parser         *parsing.Parser
	maxSuggestions int
	verbose        bool
}

// Option configures a Service.
type Option func(*Service)

// WithParser sets the parser used to re-assemble re-segmented documents.
func WithParser(p *parsing.Parser) Option {
	return func(s *Service) {
		if p != nil {
			s.parser = p
		}
	}
}

// WithMaxSuggestions sets how many rewrite suggestions are requested and kept.
func WithMaxSuggestions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// WithVerbose enables [VERBOSE] logging.
func WithVerbose(verbose bool) Option {
	return func(s *Service) {
		s.verbose = verbose
	}
}

// NewService creates a Service backed by client.
func NewService(client llm.Client, opts ...Option) *Service {
	s := &Service{
		client:         client,
		parser:         parsing.Default(),
		maxSuggestions: DefaultMaxSuggestions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest requests rewrite suggestions and an emphasis-annotated copy of the
// résumé concurrently, then merges them into one list. Emphasis is best-effort:
// when that call fails the rewrites are returned alone. Suggestions whose
// anchor cannot be located in the résumé are dropped.
func (s *Service) Suggest(ctx context.Context, req *types.SuggestRequest) ([]types.EditSuggestion, error) {
	if req == nil {
		return nil, &RequestError{Message: "request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &RequestError{Message: "invalid suggest request", Cause: err}
	}

	data := map[string]string{
		"Resume":         req.ResumeText,
		"JobDescription": req.JobDescription,
		"MaxSuggestions": strconv.Itoa(s.maxSuggestions),
	}

	var rewrites, emphasis []types.EditSuggestion
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.rewrites(gCtx, data)
		if err != nil {
			return err
		}
		rewrites = list
		return nil
	})

	g.Go(func() error {
		list, err := s.emphasis(gCtx, req.ResumeText, data)
		if err != nil {
			log.Printf("emphasis annotation skipped: %v", err)
			return nil
		}
		emphasis = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := suggestions.Merge(rewrites, emphasis)
	outcome := suggestions.Plan(req.ResumeText, merged)
	if len(outcome.Unmatched) > 0 {
		merged = dropIDs(merged, outcome.Unmatched)
	}
	if s.verbose {
		log.Printf("[VERBOSE] suggest: %d rewrite(s), %d emphasis, %d merged, %d unmatched dropped",
			len(rewrites), len(emphasis), len(merged), len(outcome.Unmatched))
	}
	return merged, nil
}

func (s *Service) rewrites(ctx context.Context, data map[string]string) ([]types.EditSuggestion, error) {
	prompt, err := prompts.Render(prompts.TailoringFile, prompts.KeyRewrite, data)
	if err != nil {
		return nil, &GenerationError{Step: "rewrite", Message: "prompt unavailable", Cause: err}
	}
	payload, err := llm.GenerateStructured(ctx, s.client, prompt, llm.TierAdvanced, embedded.Suggestions, s.verbose)
	if err != nil {
		return nil, &GenerationError{Step: "rewrite", Message: "model call failed", Cause: err}
	}
	list, skipped, err := suggestions.DecodeReport(payload)
	if err != nil {
		return nil, &GenerationError{Step: "rewrite", Message: "unusable suggestions", Cause: err}
	}
	for _, skip := range skipped {
		log.Printf("rewrite: skipped %s", skip)
	}
	if len(list) > s.maxSuggestions {
		list = list[:s.maxSuggestions]
	}
	return suggestions.AssignMissingIDs(list), nil
}

func (s *Service) emphasis(ctx context.Context, resume string, data map[string]string) ([]types.EditSuggestion, error) {
	prompt, err := prompts.Render(prompts.TailoringFile, prompts.KeyEmphasis, data)
	if err != nil {
		return nil, &GenerationError{Step: "emphasis", Message: "prompt unavailable", Cause: err}
	}
	annotated, err := s.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &GenerationError{Step: "emphasis", Message: "model call failed", Cause: err}
	}
	return suggestions.EmphasisFromAnnotated(resume, stripFence(annotated)), nil
}

// stripFence removes a markdown code fence the model may wrap text in.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 && !strings.Contains(trimmed[:idx], " ") {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func dropIDs(list []types.EditSuggestion, ids []types.SuggestionID) []types.EditSuggestion {
	drop := make(map[types.SuggestionID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]types.EditSuggestion, 0, len(list))
	for _, s := range list {
		if !drop[s.ID] {
			kept = append(kept, s)
		}
	}
	return kept
}
