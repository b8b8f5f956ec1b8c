package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry(nil)

	tests := []struct {
		name      string
		mimeType  string
		wantKnown bool
	}{
		{name: "pdf", mimeType: "application/pdf", wantKnown: true},
		{name: "docx", mimeType: MIMEDOCX, wantKnown: true},
		{name: "html with charset", mimeType: "text/html; charset=utf-8", wantKnown: true},
		{name: "plain uppercase", mimeType: "TEXT/PLAIN", wantKnown: true},
		{name: "unknown", mimeType: "application/x-unknown", wantKnown: false},
		{name: "empty", mimeType: "", wantKnown: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, known := r.Lookup(tt.mimeType)
			assert.NotNil(t, ext)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}

func TestRegistry_UnknownTypeFallsBackToPlainText(t *testing.T) {
	text, err := DefaultRegistry(nil).Extract(context.Background(), []byte("Jane Doe"), "application/x-unknown")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("application/rtf", ExtractorFunc(func(_ context.Context, data []byte) (string, error) {
		return "rtf:" + string(data), nil
	}))

	text, err := r.Extract(context.Background(), []byte("x"), "application/rtf")
	require.NoError(t, err)
	assert.Equal(t, "rtf:x", text)
	assert.ElementsMatch(t, []string{MIMEPlain, "application/rtf"}, r.Types())
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		declared string
		want     string
	}{
		{name: "declared type wins", data: []byte("hello"), declared: "text/html; charset=utf-8", want: MIMEHTML},
		{name: "octet-stream is ignored", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), declared: "application/octet-stream", want: MIMEPDF},
		{name: "sniffed pdf", data: []byte("%PDF-1.7\n"), want: MIMEPDF},
		{name: "sniffed html", data: []byte("<!DOCTYPE html><html><body><h1>Jane</h1></body></html>"), want: MIMEHTML},
		{name: "sniffed text", data: []byte("Jane Doe\nExperience"), want: MIMEPlain},
		{name: "extension fallback", data: []byte{0x00, 0x01, 0x02, 0x03}, filename: "resume.docx", want: MIMEDOCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIME(tt.data, tt.filename, tt.declared))
		})
	}
}

func TestPlainExtractor(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "utf-8", data: []byte("José"), want: "José"},
		{name: "invalid bytes are replaced", data: []byte{'a', 0xff, 'b'}, want: "a\uFFFDb"},
		{name: "utf-8 bom is dropped", data: []byte{0xef, 0xbb, 0xbf, 'h', 'i'}, want: "hi"},
		{name: "utf-16le with bom", data: []byte{0xff, 0xfe, 'H', 0x00, 'i', 0x00}, want: "Hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainExtractor{}.Extract(context.Background(), tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
