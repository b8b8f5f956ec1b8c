// Package prompts provides the prompt templates sent to the text-generation
// collaborator. Templates live in JSON files embedded at compile time and are
// rendered with text/template, so a placeholder without a value is an error
// instead of a literal "{{.Key}}" leaking into a prompt.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt files and keys.
const (
	TailoringFile     = "tailoring.json"
	KeyRewrite        = "rewrite-suggestions"
	KeyEmphasis       = "emphasis-annotate"
	KeyResegmentation = "resegment-sections"
)

// Catalog holds the raw and compiled templates of one or more prompt files.
type Catalog struct {
	fsys fs.FS

	mu    sync.Mutex
	files map[string]*promptFile
}

type promptFile struct {
	raw       map[string]string
	templates map[string]*template.Template
}

// NewCatalog returns a catalog reading prompt files from fsys.
func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys, files: make(map[string]*promptFile)}
}

var defaultCatalog = NewCatalog(promptFiles)

// Get retrieves a prompt by filename and key, unrendered.
// The filename should not include the path (e.g., "tailoring.json").
func Get(filename, key string) (string, error) { return defaultCatalog.Get(filename, key) }

// MustGet retrieves a prompt by filename and key, panicking if not found.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Render loads a prompt and fills its placeholders from data.
func Render(filename, key string, data map[string]string) (string, error) {
	return defaultCatalog.Render(filename, key, data)
}

// List returns the prompt keys in a file, sorted.
func List(filename string) ([]string, error) { return defaultCatalog.List(filename) }

// Get retrieves a prompt by filename and key, unrendered.
func (c *Catalog) Get(filename, key string) (string, error) {
	f, err := c.load(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := f.raw[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// Render executes the named template. Every {{.Key}} it references must be
// present in data; values are inserted verbatim.
func (c *Catalog) Render(filename, key string, data map[string]string) (string, error) {
	f, err := c.load(filename)
	if err != nil {
		return "", err
	}
	tmpl, ok := f.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	if data == nil {
		data = map[string]string{}
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return sb.String(), nil
}

// List returns the prompt keys in a file, sorted.
func (c *Catalog) List(filename string) ([]string, error) {
	f, err := c.load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.raw))
	for key := range f.raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// load reads and compiles a prompt file once. A file with a template that
// does not parse is rejected as a whole.
func (c *Catalog) load(filename string) (*promptFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.files[filename]; ok {
		return f, nil
	}

	data, err := fs.ReadFile(c.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	f := &promptFile{raw: raw, templates: make(map[string]*template.Template, len(raw))}
	for key, text := range raw {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("invalid template %q in %s: %w", key, filename, err)
		}
		f.templates[key] = tmpl
	}
	c.files[filename] = f
	return f, nil
}
