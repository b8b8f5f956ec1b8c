package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Metadata describes an ingested document. It is stored alongside each parse
// run and written next to the parse result by WriteOutput.
type Metadata struct {
	Filename string `json:"filename,omitempty"`
	// MIMEType is the type the document was decoded as.
	MIMEType string `json:"mime_type"`
	// SniffedType is set when the caller declared a type the content disagrees with.
	SniffedType    string    `json:"sniffed_type,omitempty"`
	IngestedAt     time.Time `json:"ingested_at"`
	ContentHash    string    `json:"content_hash"`
	SizeBytes      int       `json:"size_bytes"`
	ExtractedChars int       `json:"extracted_chars"`
	ExtractedLines int       `json:"extracted_lines"`
	// Fallback reports that no extractor was registered for MIMEType.
	Fallback  bool  `json:"fallback,omitempty"`
	ExtractMS int64 `json:"extract_ms"`
}

// HashContent returns the hex SHA-256 of data. Runs are keyed by it so the
// same résumé uploaded twice can be found again.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newMetadata(data []byte, filename, declared, decodedAs string) *Metadata {
	meta := &Metadata{
		Filename:    filename,
		MIMEType:    decodedAs,
		IngestedAt:  time.Now().UTC().Truncate(time.Second),
		ContentHash: HashContent(data),
		SizeBytes:   len(data),
	}
	if baseType(declared) == decodedAs {
		if sniffed := sniffKnownType(data); sniffed != "" && sniffed != decodedAs {
			meta.SniffedType = sniffed
		}
	}
	return meta
}

// recordExtraction fills the text statistics once extraction has finished.
func (m *Metadata) recordExtraction(raw string, took time.Duration) {
	m.ExtractedChars = utf8.RuneCountInString(raw)
	if trimmed := strings.TrimRight(raw, "\n"); trimmed != "" {
		m.ExtractedLines = strings.Count(trimmed, "\n") + 1
	}
	m.ExtractMS = took.Milliseconds()
}

// sniffKnownType returns the supported type the content looks like, or "".
// Plain text is never reported since almost anything sniffs as text.
func sniffKnownType(data []byte) string {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch t := baseType(m.String()); t {
		case MIMEPDF, MIMEDOCX, MIMEHTML:
			return t
		}
	}
	return ""
}
