package ingestion

import (
	"bytes"
	"context"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// noiseSelectors never contain résumé content.
var noiseSelectors = []string{"script", "style", "noscript", "svg", "iframe", "template", "head"}

// HTMLExtractor converts an HTML résumé to markdown so that headings survive as
// "#" lines and bold and list markup is kept.
type HTMLExtractor struct {
	policy *bluemonday.Policy
	md     *converter.Converter
}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{
		policy: bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Extract strips scripts and styles, sanitizes the remaining markup, and renders it
// as markdown. If conversion fails the visible text is returned instead.
func (e *HTMLExtractor) Extract(_ context.Context, data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &DecodeError{MIMEType: MIMEHTML, Message: "failed to parse HTML", Cause: err}
	}
	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()

	body := doc.Find("body")
	markup, err := body.Html()
	if err != nil || strings.TrimSpace(markup) == "" {
		return strings.TrimSpace(doc.Text()), nil
	}

	md, err := e.md.ConvertString(e.policy.Sanitize(markup))
	if err != nil {
		return strings.TrimSpace(body.Text()), nil
	}
	return strings.TrimSpace(md), nil
}
