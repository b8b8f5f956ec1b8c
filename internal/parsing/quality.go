package parsing

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const noPreambleWarning = "No preamble (name/contact) detected at the top of the resume."

// NeedsExternalResegmentation reports whether regex segmentation looks
// untrustworthy: no sections, a single section, or a preamble that takes up more
// than the configured share of the full text. It never segments anything itself.
func (p *Parser) NeedsExternalResegmentation(doc *types.ParsedDocument) bool {
	if doc == nil || strings.TrimSpace(doc.FullText) == "" {
		return false
	}
	found := len(nonEmptySections(doc))
	if found <= 1 {
		return true
	}
	return float64(len(doc.Preamble))/float64(len(doc.FullText)) > p.preambleRatio
}

// Validate reports which sections were found. A document is valid when it has a
// preamble and at least one required section; missing common or optional
// sections only produce warnings.
func (p *Parser) Validate(doc *types.ParsedDocument) types.SectionValidation {
	v := types.SectionValidation{
		SectionsFound:   []string{},
		SectionsMissing: []string{},
		OptionalMissing: []string{},
		Warnings:        []string{},
	}
	if doc == nil {
		v.Warnings = append(v.Warnings, noPreambleWarning)
		return v
	}

	found := make(map[string]bool)
	for _, name := range nonEmptySections(doc) {
		found[name] = true
		v.SectionsFound = append(v.SectionsFound, name)
	}

	requiredFound := false
	for _, name := range p.requiredGroup {
		if found[name] {
			requiredFound = true
		}
	}
	for _, name := range append(append([]string{}, p.requiredGroup...), p.commonGroup...) {
		if !found[name] {
			v.SectionsMissing = append(v.SectionsMissing, name)
		}
	}
	for _, name := range p.optionalGroup {
		if !found[name] {
			v.OptionalMissing = append(v.OptionalMissing, name)
		}
	}

	v.HasPreamble = strings.TrimSpace(doc.Preamble) != ""
	if !v.HasPreamble {
		v.Warnings = append(v.Warnings, noPreambleWarning)
	}
	for _, name := range v.SectionsMissing {
		v.Warnings = append(v.Warnings, fmt.Sprintf("Expected section not found: %s.", p.taxonomy.Title(name)))
	}

	v.IsValid = v.HasPreamble && requiredFound
	return v
}

func nonEmptySections(doc *types.ParsedDocument) []string {
	var names []string
	for _, s := range doc.Sections {
		if strings.TrimSpace(s.Body) != "" {
			names = append(names, s.Name)
		}
	}
	return names
}
