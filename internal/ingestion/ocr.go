package ingestion

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-tailor/internal/parsing"
)

// OCR thresholds.
const (
	// MinExtractedChars is the text-layer size below which full-document OCR is tried.
	MinExtractedChars = 80
	// OCRLeadingPages is how many leading pages are OCR-merged when the text layer is usable.
	OCRLeadingPages = 2

	minPageChars     = 30
	maxOCRHeadLines  = 8
	shortLineChars   = 80
	contactLineChars = 200
	ocrLongerFactor  = 1.5
)

// OCR recognizes text rendered on PDF pages. Implementations typically shell out
// to an OCR engine; none is bundled.
type OCR interface {
	// RecognizePages returns the text of the first limit pages, or of every page
	// when limit <= 0. Pages that fail to render yield "".
	RecognizePages(ctx context.Context, pdf []byte, limit int) ([]string, error)
}

// mergeOCR combines the text layer with OCR output. A nearly empty text layer is
// replaced by full-document OCR when that is longer. Otherwise OCR of the
// leading pages contributes lines (typically a name set in an image) that the
// text layer lacks.
func mergeOCR(ctx context.Context, ocr OCR, data []byte, pages []string) string {
	full := strings.Join(pages, pageSeparator)
	if ocr == nil {
		return full
	}

	total := utf8.RuneCountInString(strings.TrimSpace(full))
	if total < MinExtractedChars {
		if all, err := ocr.RecognizePages(ctx, data, 0); err == nil {
			text := strings.TrimSpace(strings.Join(nonEmpty(all), pageSeparator))
			if utf8.RuneCountInString(text) > total {
				return text
			}
		}
	}

	if len(pages) == 0 {
		return full
	}
	n := min(OCRLeadingPages, len(pages))
	ocrPages, err := ocr.RecognizePages(ctx, data, n)
	if err != nil || len(ocrPages) == 0 {
		return full
	}

	merged := make([]string, 0, len(pages))
	for i := 0; i < n; i++ {
		ocrText := ""
		if i < len(ocrPages) {
			ocrText = ocrPages[i]
		}
		merged = append(merged, mergeOCRIntoPage(ocrText, pages[i]))
	}
	if rest := strings.TrimSpace(strings.Join(pages[n:], "\n")); rest != "" {
		merged = append(merged, rest)
	}
	return strings.Join(nonEmpty(merged), pageSeparator)
}

// mergeOCRIntoPage prepends OCR lines from the top of a page that the text layer
// is missing and that look like a name, a header, or contact details.
func mergeOCRIntoPage(ocrText, page string) string {
	page = strings.TrimSpace(page)
	ocrText = strings.TrimSpace(ocrText)
	if ocrText == "" {
		return page
	}
	if utf8.RuneCountInString(page) < minPageChars {
		return ocrText
	}

	pageLines := trimmedLines(page)
	var head []string
	for i, line := range trimmedLines(ocrText) {
		if i == maxOCRHeadLines {
			break
		}
		if lineCovered(line, pageLines) {
			continue
		}
		switch {
		case looksLikeNameOrHeader(line):
			head = append(head, line)
		case utf8.RuneCountInString(line) < shortLineChars && hasUpper(firstRunes(line, 20)):
			head = append(head, line)
		case utf8.RuneCountInString(line) < contactLineChars && parsing.ContainsContactDetail(line):
			head = append(head, line)
		}
	}
	if len(head) > 0 {
		return strings.Join(head, "\n") + "\n\n" + page
	}
	if float64(utf8.RuneCountInString(ocrText)) > float64(utf8.RuneCountInString(page))*ocrLongerFactor {
		return ocrText
	}
	return page
}

// looksLikeNameOrHeader accepts a short capitalized line: a single alphabetic
// word, or two to six words of which at least 60% are capitalized.
func looksLikeNameOrHeader(line string) bool {
	if line == "" || utf8.RuneCountInString(line) > 100 {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(words[0])
	if !unicode.IsUpper(first) {
		return false
	}
	if len(words) == 1 {
		n := utf8.RuneCountInString(words[0])
		return n >= 2 && n <= 30 && isAlpha(words[0])
	}
	if len(words) > 6 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) {
			capitalized++
		}
	}
	return float64(capitalized) >= float64(len(words))*0.6
}

func lineCovered(line string, pageLines []string) bool {
	lower := strings.ToLower(line)
	for _, p := range pageLines {
		if p == line || strings.Contains(strings.ToLower(p), lower) {
			return true
		}
	}
	return false
}

func trimmedLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
