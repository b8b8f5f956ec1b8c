// Package types provides type definitions for structured data used throughout the resume-tailor system.
package types

// CanonicalSection is a tag from the fixed, ordered résumé section taxonomy.
type CanonicalSection string

// Canonical sections, in reassembly order.
const (
	SectionPreamble       CanonicalSection = "preamble"
	SectionSummary        CanonicalSection = "summary"
	SectionExperience     CanonicalSection = "experience"
	SectionEducation      CanonicalSection = "education"
	SectionSkills         CanonicalSection = "skills"
	SectionPublications   CanonicalSection = "publications"
	SectionCertifications CanonicalSection = "certifications"
	SectionProjects       CanonicalSection = "projects"
	SectionAwards         CanonicalSection = "awards"
	SectionOther          CanonicalSection = "other"
)

// CanonicalOrder returns the default taxonomy order, preamble first.
func CanonicalOrder() []CanonicalSection {
	return []CanonicalSection{
		SectionPreamble,
		SectionSummary,
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionPublications,
		SectionCertifications,
		SectionProjects,
		SectionAwards,
		SectionOther,
	}
}

// Section is one named block of a parsed document.
type Section struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// ParsedDocument is the canonical, section-aware representation of a résumé.
// Sections keep detection order; FullText is the reassembly used by every downstream consumer.
type ParsedDocument struct {
	FullText string    `json:"full_text"`
	Preamble string    `json:"preamble"`
	Sections []Section `json:"sections"`
}

// Section returns the body of the named section.
func (d *ParsedDocument) Section(name string) (string, bool) {
	for _, s := range d.Sections {
		if s.Name == name {
			return s.Body, true
		}
	}
	return "", false
}

// SectionNames returns section names in detection order.
func (d *ParsedDocument) SectionNames() []string {
	names := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.Name)
	}
	return names
}

// ExtractedContact holds contact entities found in résumé text.
type ExtractedContact struct {
	Phones        []string `json:"phones"`
	Emails        []string `json:"emails"`
	LinkedInURLs  []string `json:"linkedin_urls"`
	PortfolioURLs []string `json:"portfolio_urls"`
	OtherURLs     []string `json:"other_urls"`
	Location      string   `json:"location,omitempty"`
}

// IsEmpty reports whether no contact entity was found.
func (c *ExtractedContact) IsEmpty() bool {
	return len(c.Phones) == 0 && len(c.Emails) == 0 && len(c.LinkedInURLs) == 0 &&
		len(c.PortfolioURLs) == 0 && len(c.OtherURLs) == 0 && c.Location == ""
}

// SectionValidation is a read-only report on which sections a document contains.
type SectionValidation struct {
	SectionsFound   []string `json:"sections_found"`
	SectionsMissing []string `json:"sections_missing"`
	OptionalMissing []string `json:"optional_missing"`
	HasPreamble     bool     `json:"has_preamble"`
	IsValid         bool     `json:"is_valid"`
	Warnings        []string `json:"warnings"`
}
