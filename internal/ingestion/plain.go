package ingestion

import (
	"context"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlainExtractor decodes bytes as text. A UTF-16 or UTF-8 byte order mark selects
// the encoding; otherwise UTF-8 is assumed and invalid sequences become U+FFFD.
type PlainExtractor struct{}

// Extract never fails on malformed input.
func (PlainExtractor) Extract(_ context.Context, data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		out = data
	}
	return strings.ToValidUTF8(string(out), "\uFFFD"), nil
}
