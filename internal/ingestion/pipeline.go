package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Result is the outcome of ingesting one document.
type Result struct {
	Metadata *Metadata            `json:"metadata"`
	RawText  string               `json:"raw_text"`
	Parse    *types.ParseResponse `json:"parse"`
}

// Pipeline extracts text from a document and structures it.
type Pipeline struct {
	registry *Registry
	parser   *parsing.Parser
	verbose  bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithRegistry replaces the default extractor registry.
func WithRegistry(r *Registry) PipelineOption {
	return func(p *Pipeline) { p.registry = r }
}

// WithParser replaces the default parser.
func WithParser(parser *parsing.Parser) PipelineOption {
	return func(p *Pipeline) { p.parser = parser }
}

// WithVerbose enables per-stage logging.
func WithVerbose(verbose bool) PipelineOption {
	return func(p *Pipeline) { p.verbose = verbose }
}

// NewPipeline creates a pipeline with the default registry (no OCR) and parser.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = DefaultRegistry(nil)
	}
	if p.parser == nil {
		p.parser = parsing.Default()
	}
	return p
}

// Parser returns the parser used for structuring.
func (p *Pipeline) Parser() *parsing.Parser {
	return p.parser
}

// Run extracts text with the extractor for mimeType and parses it. Unknown types
// are decoded as plain text; decode failures are returned as *DecodeError.
func (p *Pipeline) Run(ctx context.Context, data []byte, filename, mimeType string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	declared := mimeType
	mimeType = DetectMIME(data, filename, declared)
	meta := newMetadata(data, filename, declared, mimeType)

	ext, known := p.registry.Lookup(mimeType)
	meta.Fallback = !known
	if p.verbose {
		log.Printf("[VERBOSE] Ingesting %q as %s (%d bytes, fallback=%v)", filename, mimeType, len(data), !known)
	}

	if meta.SniffedType != "" {
		log.Printf("Warning: %q declared as %s but its content looks like %s", filename, mimeType, meta.SniffedType)
	}

	start := time.Now()
	raw, err := ext.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	meta.recordExtraction(raw, time.Since(start))
	if p.verbose {
		log.Printf("[VERBOSE] Extracted %d chars on %d lines in %dms", meta.ExtractedChars, meta.ExtractedLines, meta.ExtractMS)
	}

	resp := p.parser.Analyze(raw)
	if p.verbose {
		log.Printf("[VERBOSE] Sections: %v, needs re-segmentation: %v", resp.Document.SectionNames(), resp.NeedsResegmentation)
	}
	return &Result{Metadata: meta, RawText: raw, Parse: resp}, nil
}

// RunFile reads path and runs the pipeline on it, detecting the MIME type from
// content and extension.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Run(ctx, data, filepath.Base(path), "")
}
