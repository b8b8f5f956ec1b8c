package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">
<w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Experience</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Built </w:t></w:r><w:r><w:t>APIs</w:t><w:tab/><w:t>2020</w:t></w:r></w:p>
<w:p></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Python</w:t></w:r></w:p><w:p><w:r><w:t>SQL</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><mc:AlternateContent><mc:Choice Requires="wps"><w:drawing><w:txbxContent><w:p><w:r><w:t>Portland, OR</w:t></w:r></w:p></w:txbxContent></w:drawing></mc:Choice><mc:Fallback><w:pict><w:txbxContent><w:p><w:r><w:t>Portland, OR</w:t></w:r></w:p></w:txbxContent></w:pict></mc:Fallback></mc:AlternateContent></w:r></w:p>
</w:body>
</w:document>`

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDOCXExtractor(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   sampleDocumentXML,
	})

	text, err := DOCXExtractor{}.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nExperience\nBuilt APIs\t2020\nGo | Python SQL\nPortland, OR", text)
}

func TestDOCXExtractor_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a zip", data: []byte("plain text")},
		{name: "missing body", data: buildDocx(t, map[string]string{"word/styles.xml": "<styles/>"})},
		{name: "malformed xml", data: buildDocx(t, map[string]string{"word/document.xml": "<w:document><w:body>"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DOCXExtractor{}.Extract(context.Background(), tt.data)
			require.Error(t, err)
			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, MIMEDOCX, decodeErr.MIMEType)
		})
	}
}

func TestPDFExtractor_Malformed(t *testing.T) {
	_, err := (&PDFExtractor{}).Extract(context.Background(), []byte("not a pdf at all"))
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, MIMEPDF, decodeErr.MIMEType)
}

func TestHTMLExtractor(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>Resume</title><style>.x { color: red; }</style></head>
<body>
<h1>Jane Doe</h1>
<h2>Experience</h2>
<ul><li>Built <strong>Go</strong> APIs</li></ul>
<script>alert("hi")</script>
</body>
</html>`

	text, err := NewHTMLExtractor().Extract(context.Background(), []byte(html))
	require.NoError(t, err)

	assert.Contains(t, text, "# Jane Doe")
	assert.Contains(t, text, "## Experience")
	assert.Contains(t, text, "- Built **Go** APIs")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "Resume")
}
