// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/suggestions"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// firstLine returns the first non-blank line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// PrintMetadata outputs what was extracted from the uploaded file.
func (p *Printer) PrintMetadata(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s\n", meta.Filename))
	sb.WriteString(fmt.Sprintf("Type:       %s", meta.MIMEType))
	if meta.Fallback {
		sb.WriteString(" (decoded as text)")
	}
	if meta.SniffedType != "" {
		sb.WriteString(fmt.Sprintf(" (content looks like %s)", meta.SniffedType))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Size:       %d bytes\n", meta.SizeBytes))
	sb.WriteString(fmt.Sprintf("Extracted:  %d chars, %d lines\n", meta.ExtractedChars, meta.ExtractedLines))
	sb.WriteString(fmt.Sprintf("SHA-256:    %s", truncate(meta.ContentHash, 16)))

	p.printBox("EXTRACTION", sb.String())
}

// PrintParseResponse outputs the detected sections and the quality gate verdict.
func (p *Printer) PrintParseResponse(resp *types.ParseResponse) {
	if resp == nil || resp.Document == nil {
		return
	}

	var sb strings.Builder
	if resp.Document.Preamble != "" {
		sb.WriteString(fmt.Sprintf("Preamble:  %s\n\n", firstLine(resp.Document.Preamble)))
	}

	sb.WriteString(fmt.Sprintf("Sections (%d):\n", len(resp.Document.Sections)))
	for _, s := range resp.Document.Sections {
		sb.WriteString(fmt.Sprintf("  • %-16s %5d chars\n", s.Name, utf8.RuneCountInString(s.Body)))
	}

	v := resp.Validation
	if len(v.SectionsMissing) > 0 {
		sb.WriteString(fmt.Sprintf("\nMissing:   %s\n", strings.Join(v.SectionsMissing, ", ")))
	}
	if len(v.OptionalMissing) > 0 {
		sb.WriteString(fmt.Sprintf("Optional:  %s\n", strings.Join(v.OptionalMissing, ", ")))
	}
	for _, w := range v.Warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w))
	}

	sb.WriteString("\n")
	switch {
	case resp.Resegmented:
		sb.WriteString("Sections were re-segmented by the model")
	case resp.NeedsResegmentation:
		sb.WriteString("Needs re-segmentation")
	case v.IsValid:
		sb.WriteString("✓ Structure looks complete")
	default:
		sb.WriteString("Structure is incomplete")
	}

	p.printBox("PARSED RESUME", sb.String())
}

// PrintContact outputs the contact entities found in the résumé.
func (p *Printer) PrintContact(contact *types.ExtractedContact) {
	if contact == nil {
		return
	}
	if contact.IsEmpty() {
		p.printBox("CONTACT", "No contact details found")
		return
	}

	var sb strings.Builder
	writeList := func(label string, values []string) {
		if len(values) > 0 {
			sb.WriteString(fmt.Sprintf("%-11s%s\n", label, strings.Join(values, ", ")))
		}
	}
	writeList("Email:", contact.Emails)
	writeList("Phone:", contact.Phones)
	writeList("LinkedIn:", contact.LinkedInURLs)
	writeList("Portfolio:", contact.PortfolioURLs)
	writeList("Other:", contact.OtherURLs)
	if contact.Location != "" {
		sb.WriteString(fmt.Sprintf("%-11s%s\n", "Location:", contact.Location))
	}

	p.printBox("CONTACT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the first few suggestions with their anchors.
func (p *Printer) PrintSuggestions(list []types.EditSuggestion) {
	if len(list) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d suggestions:\n\n", len(list)))

	count := min(len(list), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := list[i]
		sb.WriteString(fmt.Sprintf("#%d", s.ID))
		if s.Section != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", s.Section))
		}
		if s.Priority != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", s.Priority))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  - %s\n", firstLine(s.OriginalText)))
		if s.SuggestedText == "" {
			sb.WriteString("  + (delete)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  + %s\n", firstLine(s.SuggestedText)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(list) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more suggestions", len(list)-maxItemsToShow))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs how accepted suggestions mapped onto the text.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOutcome(outcome *suggestions.Outcome) {
	if outcome == nil {
		return
	}
	if len(outcome.Unmatched) == 0 && len(outcome.Overlapping) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ %d REPLACEMENTS, ALL SUGGESTIONS MATCHED", len(outcome.Replacements)))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Replacements: %d\n", len(outcome.Replacements)))
	if len(outcome.Unmatched) > 0 {
		sb.WriteString(fmt.Sprintf("⚠ Anchor not found: %s\n", joinIDs(outcome.Unmatched)))
	}
	if len(outcome.Overlapping) > 0 {
		sb.WriteString(fmt.Sprintf("⚠ Skipped, overlaps an earlier edit: %s\n", joinIDs(outcome.Overlapping)))
	}

	p.printBox("APPLY OUTCOME", strings.TrimSuffix(sb.String(), "\n"))
}

func joinIDs(ids []types.SuggestionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}
