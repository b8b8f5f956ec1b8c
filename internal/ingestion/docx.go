package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// DOCXExtractor reads paragraphs, tables, and text boxes from word/document.xml
// in document order. Table cells on a row are joined with " | ".
type DOCXExtractor struct{}

// Extract returns one line per non-empty paragraph or table row.
func (DOCXExtractor) Extract(_ context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{MIMEType: MIMEDOCX, Message: "not a zip archive", Cause: err}
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", &DecodeError{MIMEType: MIMEDOCX, Message: docxBody + " not found in archive"}
	}

	rc, err := body.Open()
	if err != nil {
		return "", &DecodeError{MIMEType: MIMEDOCX, Message: "failed to open " + docxBody, Cause: err}
	}
	defer func() { _ = rc.Close() }()

	lines, err := docxLines(rc)
	if err != nil {
		return "", &DecodeError{MIMEType: MIMEDOCX, Message: "malformed " + docxBody, Cause: err}
	}
	return strings.Join(lines, "\n"), nil
}

// docxWalker tracks the nesting of paragraphs, table rows, and cells while
// streaming WordprocessingML tokens.
type docxWalker struct {
	lines      []string
	paragraphs []*strings.Builder
	rows       [][]string
	cells      [][]string
	inRun      bool
	inText     bool
	skipDepth  int
}

func docxLines(r io.Reader) ([]string, error) {
	w := &docxWalker{}
	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t.Name.Local)
		case xml.EndElement:
			w.end(t.Name.Local)
		case xml.CharData:
			if w.inText && w.skipDepth == 0 && len(w.paragraphs) > 0 {
				w.paragraphs[len(w.paragraphs)-1].Write(t)
			}
		}
	}
	return w.lines, nil
}

func (w *docxWalker) start(name string) {
	// Text boxes are stored twice: once for modern readers and once as a VML fallback.
	if name == "Fallback" || w.skipDepth > 0 {
		w.skipDepth++
		return
	}
	switch name {
	case "p":
		w.paragraphs = append(w.paragraphs, &strings.Builder{})
	case "r":
		w.inRun = true
	case "t":
		w.inText = true
	case "tab":
		if w.inRun {
			w.writeRune('\t')
		}
	case "br", "cr":
		if w.inRun {
			w.writeRune('\n')
		}
	case "tr":
		w.rows = append(w.rows, nil)
	case "tc":
		w.cells = append(w.cells, nil)
	}
}

func (w *docxWalker) end(name string) {
	if w.skipDepth > 0 {
		w.skipDepth--
		return
	}
	switch name {
	case "r":
		w.inRun = false
	case "t":
		w.inText = false
	case "p":
		if n := len(w.paragraphs); n > 0 {
			text := w.paragraphs[n-1].String()
			w.paragraphs = w.paragraphs[:n-1]
			if strings.TrimSpace(text) != "" {
				w.emit(strings.TrimSpace(text))
			}
		}
	case "tc":
		if n := len(w.cells); n > 0 {
			cell := strings.Join(w.cells[n-1], " ")
			w.cells = w.cells[:n-1]
			if m := len(w.rows); m > 0 && cell != "" {
				w.rows[m-1] = append(w.rows[m-1], cell)
			}
		}
	case "tr":
		if n := len(w.rows); n > 0 {
			row := w.rows[n-1]
			w.rows = w.rows[:n-1]
			if len(row) > 0 {
				w.emit(strings.Join(row, " | "))
			}
		}
	}
}

// emit sends text to the innermost open table cell, or to the output.
func (w *docxWalker) emit(text string) {
	if n := len(w.cells); n > 0 {
		w.cells[n-1] = append(w.cells[n-1], text)
		return
	}
	w.lines = append(w.lines, text)
}

func (w *docxWalker) writeRune(r rune) {
	if n := len(w.paragraphs); n > 0 {
		w.paragraphs[n-1].WriteRune(r)
	}
}
