// Package parsing turns extracted résumé text into a canonical, section-aware document.
//
// Every function in this package is a pure transformation over in-memory strings;
// a Parser holds only immutable configuration and may be shared between goroutines.
package parsing

import (
	"sync"

	"github.com/jonathan/resume-tailor/internal/sections"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Defaults for contact scanning and the segmentation quality gate.
const (
	DefaultHeaderZoneChars        = 2500
	DefaultLocationZoneChars      = 1200
	DefaultPreambleRatioThreshold = 0.45
)

// Parser runs normalization, segmentation, contact extraction, and assembly
// against one section taxonomy.
type Parser struct {
	taxonomy      *sections.Taxonomy
	preambleRatio float64
	headerZone    int
	locationZone  int
	requiredGroup []string
	commonGroup   []string
	optionalGroup []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithPreambleRatio sets the preamble share above which segmentation is distrusted.
func WithPreambleRatio(ratio float64) Option {
	return func(p *Parser) {
		if ratio > 0 && ratio <= 1 {
			p.preambleRatio = ratio
		}
	}
}

// WithContactZones sets how many leading characters are scanned for portfolio
// URLs and for the location line.
func WithContactZones(headerChars, locationChars int) Option {
	return func(p *Parser) {
		if headerChars > 0 {
			p.headerZone = headerChars
		}
		if locationChars > 0 {
			p.locationZone = locationChars
		}
	}
}

// New creates a Parser. A nil taxonomy selects the built-in one.
func New(taxonomy *sections.Taxonomy, opts ...Option) *Parser {
	if taxonomy == nil {
		taxonomy = sections.Default()
	}
	p := &Parser{
		taxonomy:      taxonomy,
		preambleRatio: DefaultPreambleRatioThreshold,
		headerZone:    DefaultHeaderZoneChars,
		locationZone:  DefaultLocationZoneChars,
		requiredGroup: []string{string(types.SectionExperience), string(types.SectionEducation)},
		commonGroup:   []string{string(types.SectionSkills)},
		optionalGroup: []string{
			string(types.SectionSummary),
			string(types.SectionPublications),
			string(types.SectionCertifications),
			string(types.SectionProjects),
			string(types.SectionAwards),
			string(types.SectionOther),
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = sync.OnceValue(func() *Parser { return New(nil) })

// Default returns the Parser built on the default taxonomy.
func Default() *Parser {
	return defaultParser()
}

// Taxonomy returns the parser's section taxonomy.
func (p *Parser) Taxonomy() *sections.Taxonomy {
	return p.taxonomy
}

// ParseText runs the full structuring pipeline on raw extracted text:
// normalize, segment, extract contact details, and assemble.
func (p *Parser) ParseText(raw string) *types.ParsedDocument {
	return p.Analyze(raw).Document
}

// Analyze parses raw text like ParseText and also reports the contact details
// found, section validation, and the re-segmentation verdict.
func (p *Parser) Analyze(raw string) *types.ParseResponse {
	cleaned := p.Normalize(raw)
	preamble, secs := p.Segment(cleaned)
	contact := p.ExtractContact(cleaned)
	doc := p.Assemble(preamble, secs, &contact)
	return &types.ParseResponse{
		Document:            doc,
		Validation:          p.Validate(doc),
		Contact:             &contact,
		NeedsResegmentation: p.NeedsExternalResegmentation(doc),
	}
}

// Normalize normalizes text with the default parser.
func Normalize(raw string) string { return Default().Normalize(raw) }

// Segment segments text with the default parser.
func Segment(cleaned string) (string, []types.Section) { return Default().Segment(cleaned) }

// ExtractContact extracts contact details with the default parser.
func ExtractContact(text string) types.ExtractedContact { return Default().ExtractContact(text) }

// ParseText parses raw text with the default parser.
func ParseText(raw string) *types.ParsedDocument { return Default().ParseText(raw) }

// Validate validates a document with the default parser.
func Validate(doc *types.ParsedDocument) types.SectionValidation { return Default().Validate(doc) }

// NeedsExternalResegmentation applies the default quality gate.
func NeedsExternalResegmentation(doc *types.ParsedDocument) bool {
	return Default().NeedsExternalResegmentation(doc)
}
