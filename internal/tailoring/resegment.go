package tailoring

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
	embedded "github.com/jonathan/resume-tailor/schemas"
)

type segmentation struct {
	Preamble string          `json:"preamble"`
	Sections []types.Section `json:"sections"`
}

// Resegment asks the collaborator to split doc's text into a preamble and
// sections, then rebuilds the document through the parser so labels are
// canonicalized and contact details merged exactly as in regex segmentation.
// An answer without any non-empty section is rejected.
func (s *Service) Resegment(ctx context.Context, doc *types.ParsedDocument) (*types.ParseResponse, error) {
	if doc == nil || strings.TrimSpace(doc.FullText) == "" {
		return nil, &RequestError{Message: "document has no text to segment"}
	}

	prompt, err := prompts.Render(prompts.TailoringFile, prompts.KeyResegmentation, map[string]string{
		"Resume":   doc.FullText,
		"Sections": strings.Join(s.parser.Taxonomy().Order(), ", "),
	})
	if err != nil {
		return nil, &GenerationError{Step: "resegment", Message: "prompt unavailable", Cause: err}
	}

	payload, err := llm.GenerateStructured(ctx, s.client, prompt, llm.TierStandard, embedded.Sections, s.verbose)
	if err != nil {
		return nil, &GenerationError{Step: "resegment", Message: "model call failed", Cause: err}
	}

	var seg segmentation
	if err := json.Unmarshal(payload, &seg); err != nil {
		return nil, &GenerationError{Step: "resegment", Message: "failed to unmarshal segmentation", Cause: err}
	}

	kept := seg.Sections[:0]
	for _, sec := range seg.Sections {
		if strings.TrimSpace(sec.Body) != "" {
			kept = append(kept, types.Section{Name: sec.Name, Body: strings.TrimSpace(sec.Body)})
		}
	}
	if len(kept) == 0 {
		return nil, &GenerationError{Step: "resegment", Message: "model returned no sections"}
	}

	contact := s.parser.ExtractContact(doc.FullText)
	rebuilt := s.parser.Assemble(seg.Preamble, kept, &contact)
	if s.verbose {
		log.Printf("[VERBOSE] resegment: %d section(s) from model, %d after assembly", len(kept), len(rebuilt.Sections))
	}

	return &types.ParseResponse{
		Document:            rebuilt,
		Validation:          s.parser.Validate(rebuilt),
		Contact:             &contact,
		NeedsResegmentation: s.parser.NeedsExternalResegmentation(rebuilt),
		Resegmented:         true,
	}, nil
}

// Refine re-segments resp through the collaborator when the quality gate
// fired. On failure the original response is returned with the error so
// callers can keep the regex result.
func (s *Service) Refine(ctx context.Context, resp *types.ParseResponse) (*types.ParseResponse, error) {
	if resp == nil || !resp.NeedsResegmentation {
		return resp, nil
	}
	refined, err := s.Resegment(ctx, resp.Document)
	if err != nil {
		return resp, err
	}
	refined.RunID = resp.RunID
	return refined, nil
}
