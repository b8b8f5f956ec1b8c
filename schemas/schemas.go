// Package schemas embeds the JSON Schema documents that describe the
// artifacts exchanged with the text-generation collaborator and API clients.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.schema.json
var files embed.FS

// Schema names.
const (
	Suggestions    = "suggestions.schema.json"
	Sections       = "sections.schema.json"
	ParsedDocument = "parsed_document.schema.json"
	ApplyRequest   = "apply_request.schema.json"
	SectionConfig  = "section_config.schema.json"
)

// Load returns the raw bytes of an embedded schema.
func Load(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return data, nil
}

// Names lists the embedded schemas in lexical order.
func Names() []string {
	matches, _ := fs.Glob(files, "*.schema.json")
	sort.Strings(matches)
	return matches
}
