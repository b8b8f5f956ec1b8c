package parsing

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ContactSeparator joins items on a synthesized contact line.
const ContactSeparator = " · "

// Assemble builds the canonical document. Contact details that are not already
// present in the preamble are appended to it as a single line, so they survive
// even when the source layout confused segmentation. Section labels are
// canonicalized and duplicates merged before the full text is rebuilt.
func (p *Parser) Assemble(preamble string, secs []types.Section, contact *types.ExtractedContact) *types.ParsedDocument {
	canonical := make([]types.Section, 0, len(secs))
	for _, s := range secs {
		canonical = append(canonical, types.Section{Name: p.taxonomy.Canonicalize(s.Name), Body: s.Body})
	}
	merged := mergeSections(canonical)

	preamble = strings.TrimSpace(preamble)
	if contact != nil {
		preamble = MergeContactIntoPreamble(preamble, contact)
	}

	return &types.ParsedDocument{
		FullText: p.BuildFullText(preamble, merged, true),
		Preamble: preamble,
		Sections: merged,
	}
}

// MergeContactIntoPreamble appends the contact items missing from preamble as one
// separator-joined line: location, phones, emails, LinkedIn, portfolio, other URLs.
// Presence is a case-insensitive substring check that ignores URL schemes and "www.".
func MergeContactIntoPreamble(preamble string, contact *types.ExtractedContact) string {
	preamble = strings.TrimSpace(preamble)
	lower := strings.ToLower(preamble)
	present := func(v string) bool {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || strings.Contains(lower, v) {
			return true
		}
		bare := strings.NewReplacer("https://", "", "http://", "", "www.", "").Replace(v)
		return strings.Contains(lower, bare)
	}

	var parts []string
	if contact.Location != "" && !present(contact.Location) {
		parts = append(parts, strings.TrimSpace(contact.Location))
	}
	for _, group := range [][]string{
		contact.Phones,
		contact.Emails,
		contact.LinkedInURLs,
		contact.PortfolioURLs,
		contact.OtherURLs,
	} {
		for _, v := range group {
			if !present(v) {
				parts = append(parts, strings.TrimSpace(v))
			}
		}
	}
	if len(parts) == 0 {
		return preamble
	}

	line := strings.Join(parts, ContactSeparator)
	if preamble == "" {
		return line
	}
	return preamble + "\n\n" + line
}

// FormatContactLine joins every extracted contact item in display order.
func FormatContactLine(contact *types.ExtractedContact) string {
	return MergeContactIntoPreamble("", contact)
}
