package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeOCR struct {
	pages  []string
	err    error
	limits []int
}

func (f *fakeOCR) RecognizePages(_ context.Context, _ []byte, limit int) ([]string, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if limit <= 0 || limit > len(f.pages) {
		return f.pages, nil
	}
	return f.pages[:limit], nil
}

func TestLooksLikeNameOrHeader(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Jane Doe", true},
		{"Gabby", true},
		{"Senior Software Engineer at Acme", true},
		{"J", false},
		{"jane doe", false},
		{"Go2", false},
		{"Built systems for the team and many more words", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeNameOrHeader(tt.line))
		})
	}
}

func TestMergeOCRIntoPage(t *testing.T) {
	page := "Experience\nBuilt payment APIs in Go for five years at Acme"
	lowercasePage := "the quick brown fox jumps over the lazy dog"

	tests := []struct {
		name string
		ocr  string
		page string
		want string
	}{
		{
			name: "no ocr text",
			ocr:  "",
			page: page,
			want: page,
		},
		{
			name: "nearly empty page is replaced",
			ocr:  "Jane Doe\nExperience",
			page: "Hi",
			want: "Jane Doe\nExperience",
		},
		{
			name: "missing name is prepended",
			ocr:  "Jane Doe\nExperience\nBuilt payment APIs in Go for five years at Acme",
			page: page,
			want: "Jane Doe\n\n" + page,
		},
		{
			name: "missing contact line is prepended",
			ocr:  "reach me at jane@example.com",
			page: page,
			want: "reach me at jane@example.com\n\n" + page,
		},
		{
			name: "much longer ocr wins",
			ocr:  lowercasePage + "\nfiller text without capitals here\nmore filler text without capitals",
			page: lowercasePage,
			want: lowercasePage + "\nfiller text without capitals here\nmore filler text without capitals",
		},
		{
			name: "nothing new keeps the text layer",
			ocr:  "built payment apis",
			page: page,
			want: page,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeOCRIntoPage(tt.ocr, tt.page))
		})
	}
}

func TestMergeOCR(t *testing.T) {
	p1 := "Experience\nBuilt payment APIs in Go for five years at Acme Corp"
	p2 := "Education\nBS Computer Science from State University"
	p3 := "Skills\nGo, Python"

	t.Run("without OCR the pages are joined", func(t *testing.T) {
		assert.Equal(t, p1+"\n\n"+p2, mergeOCR(context.Background(), nil, nil, []string{p1, p2}))
	})

	t.Run("empty text layer uses full OCR", func(t *testing.T) {
		ocr := &fakeOCR{pages: []string{"Jane Doe resume text", "page two"}}
		got := mergeOCR(context.Background(), ocr, nil, []string{"", ""})
		assert.Equal(t, "Jane Doe resume text\n\npage two", got)
		assert.Equal(t, 0, ocr.limits[0])
	})

	t.Run("leading pages are merged", func(t *testing.T) {
		ocr := &fakeOCR{pages: []string{"Jane Doe\nExperience", "", "ignored"}}
		got := mergeOCR(context.Background(), ocr, nil, []string{p1, p2, p3})
		assert.Equal(t, strings.Join([]string{"Jane Doe\n\n" + p1, p2, p3}, "\n\n"), got)
		assert.Equal(t, []int{OCRLeadingPages}, ocr.limits)
	})

	t.Run("OCR failure keeps the text layer", func(t *testing.T) {
		ocr := &fakeOCR{err: errors.New("tesseract missing")}
		assert.Equal(t, p1+"\n\n"+p2, mergeOCR(context.Background(), ocr, nil, []string{p1, p2}))
	})
}
