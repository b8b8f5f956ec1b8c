// Package ingestion turns uploaded résumé files into raw text and runs the
// structuring pipeline over it.
package ingestion

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// Supported MIME types.
const (
	MIMEPlain = "text/plain"
	MIMEHTML  = "text/html"
	MIMEPDF   = "application/pdf"
	MIMEDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Extractor turns document bytes into raw text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract calls f(ctx, data).
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// Registry maps MIME types to extractors. Types without an extractor are
// decoded as plain text.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
	fallback   Extractor
}

// NewRegistry creates a registry that only knows the plain-text fallback.
func NewRegistry() *Registry {
	plain := PlainExtractor{}
	return &Registry{
		extractors: map[string]Extractor{MIMEPlain: plain},
		fallback:   plain,
	}
}

// DefaultRegistry registers the PDF, DOCX, HTML, and plain-text extractors.
// ocr may be nil.
func DefaultRegistry(ocr OCR) *Registry {
	r := NewRegistry()
	r.Register(MIMEPDF, &PDFExtractor{OCR: ocr})
	r.Register(MIMEDOCX, DOCXExtractor{})
	r.Register(MIMEHTML, NewHTMLExtractor())
	return r
}

// Register installs ext for mimeType, replacing any previous extractor.
func (r *Registry) Register(mimeType string, ext Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[baseType(mimeType)] = ext
}

// Lookup returns the extractor for mimeType, ignoring parameters such as charset.
// The boolean reports whether a specific extractor was registered.
func (r *Registry) Lookup(mimeType string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ext, ok := r.extractors[baseType(mimeType)]; ok {
		return ext, true
	}
	return r.fallback, false
}

// Types lists the registered MIME types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.extractors))
	for t := range r.extractors {
		out = append(out, t)
	}
	return out
}

// Extract decodes data with the extractor registered for mimeType.
func (r *Registry) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	ext, _ := r.Lookup(mimeType)
	return ext.Extract(ctx, data)
}

var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
	".html": MIMEHTML,
	".htm":  MIMEHTML,
	".txt":  MIMEPlain,
	".md":   MIMEPlain,
}

// DetectMIME picks a MIME type for an upload. A declared type other than the
// generic octet-stream wins, then content sniffing, then the file extension.
func DetectMIME(data []byte, filename, declared string) string {
	if t := baseType(declared); t != "" && t != "application/octet-stream" {
		return t
	}
	sniffed := mimetype.Detect(data)
	for m := sniffed; m != nil; m = m.Parent() {
		switch t := baseType(m.String()); t {
		case MIMEPDF, MIMEDOCX, MIMEHTML, MIMEPlain:
			return t
		}
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return baseType(sniffed.String())
}

func baseType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	if t, _, err := mime.ParseMediaType(mimeType); err == nil {
		return t
	}
	t, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
