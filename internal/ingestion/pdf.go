package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSeparator joins pages so downstream stages can still see page breaks.
const pageSeparator = "\n\n"

// PDFExtractor reads the text layer of each page. With an OCR collaborator it
// also recovers text that only exists as images.
type PDFExtractor struct {
	OCR OCR
}

// Extract returns the page texts joined by a blank line.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	pages, err := pdfPages(data)
	if err != nil {
		return "", err
	}
	return mergeOCR(ctx, e.OCR, data, pages), nil
}

// pdfPages extracts trimmed plain text per page. The pdf package panics on some
// malformed inputs, so panics are reported as decode errors.
func pdfPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &DecodeError{MIMEType: MIMEPDF, Message: fmt.Sprintf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{MIMEType: MIMEPDF, Message: "failed to open PDF", Cause: err}
	}

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &DecodeError{MIMEType: MIMEPDF, Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
