// Package schemas provides JSON Schema validation for the structured artifacts
// exchanged with API clients and the text-generation collaborator.
package schemas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	embedded "github.com/jonathan/resume-tailor/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// RootField names the document itself in a FieldError.
const RootField = "(root)"

// FieldError is one schema violation. Rule is the JSON Schema keyword that
// failed, such as "required" or "enum".
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError lists every violation of one schema, ordered by field.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	subject := "document"
	if ve.Schema != "" {
		subject = ve.Schema
	}
	return fmt.Sprintf("validation against %s failed: %s", subject, strings.Join(parts, "; "))
}

// SchemaLoadError reports a schema that is unknown or does not compile.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// cache holds compiled schemas keyed by embedded name or absolute path.
var cache = struct {
	sync.Mutex
	schemas map[string]*gojsonschema.Schema
}{schemas: make(map[string]*gojsonschema.Schema)}

func compiled(key string, loader func() (gojsonschema.JSONLoader, error)) (*gojsonschema.Schema, error) {
	cache.Lock()
	defer cache.Unlock()
	if schema, ok := cache.schemas[key]; ok {
		return schema, nil
	}
	source, err := loader()
	if err != nil {
		return nil, &SchemaLoadError{Path: key, Message: "unknown schema", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(source)
	if err != nil {
		return nil, &SchemaLoadError{Path: key, Message: "schema failed to compile", Cause: err}
	}
	cache.schemas[key] = schema
	return schema, nil
}

func embeddedSchema(name string) (*gojsonschema.Schema, error) {
	return compiled(name, func() (gojsonschema.JSONLoader, error) {
		raw, err := embedded.Load(name)
		if err != nil {
			return nil, err
		}
		return gojsonschema.NewBytesLoader(raw), nil
	})
}

// fileSchema compiles a schema on disk. Loading by reference keeps relative
// $ref pointers working.
func fileSchema(absPath string) (*gojsonschema.Schema, error) {
	return compiled(absPath, func() (gojsonschema.JSONLoader, error) {
		return gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(absPath)), nil
	})
}

// ValidateBytes validates a JSON document against one of the embedded schemas.
// Malformed JSON is reported as a ValidationError on RootField.
func ValidateBytes(name string, data []byte) error {
	schema, err := embeddedSchema(name)
	if err != nil {
		return err
	}
	return check(name, schema, data)
}

// ValidateJSON validates the JSON file at jsonPath. schemaRef is a schema file
// on disk or, when no such file exists, the name of an embedded schema.
func ValidateJSON(schemaRef, jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("JSON file not found: %s", jsonPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	if info, statErr := os.Stat(schemaRef); statErr == nil && !info.IsDir() {
		absPath, err := filepath.Abs(schemaRef)
		if err != nil {
			return fmt.Errorf("failed to resolve schema path: %w", err)
		}
		schema, err := fileSchema(absPath)
		if err != nil {
			return err
		}
		return check(filepath.Base(absPath), schema, data)
	}

	if _, err := embedded.Load(schemaRef); err != nil {
		return fmt.Errorf("schema file not found: %s (embedded schemas: %s)", schemaRef, strings.Join(embedded.Names(), ", "))
	}
	return ValidateBytes(schemaRef, data)
}

func check(name string, schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{
			Schema: name,
			Errors: []FieldError{{Field: RootField, Rule: "json", Message: fmt.Sprintf("document is not valid JSON: %v", err)}},
		}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = RootField
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Rule: desc.Type(), Message: desc.Description()})
	}
	sort.SliceStable(verr.Errors, func(i, j int) bool { return verr.Errors[i].Field < verr.Errors[j].Field })
	return verr
}
