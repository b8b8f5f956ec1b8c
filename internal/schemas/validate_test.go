package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	embedded "github.com/jonathan/resume-tailor/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)

	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{name: "valid", content: `{"name": "Jane"}`},
		{name: "missing field", content: `{"age": 30}`, wantError: true},
		{name: "wrong type", content: `{"name": 7}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := writeFile(t, dir, "doc.json", tt.content)
			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError, got %T", err)
			assert.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, "person.schema.json", validationErr.Schema)
		})
	}
}

func TestValidateJSON_EmbeddedSchemaName(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "sections.json", `{"preamble": "Jane", "sections": [{"name": "experience", "body": "x"}]}`)

	assert.NoError(t, ValidateJSON(embedded.Sections, jsonPath))
}

func TestValidateJSON_NotFound(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "Jane"}`)

	err := ValidateJSON(filepath.Join(dir, "nonexistent_schema.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), embedded.Suggestions, "lists embedded schemas")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "nonexistent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)
	malformed := writeFile(t, dir, "malformed.json", "{ invalid json }")

	assert.Error(t, ValidateJSON(schemaPath, malformed))
}

func TestValidateBytes(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		data      string
		wantError bool
		wantField string
	}{
		{
			name:   "suggestions envelope",
			schema: embedded.Suggestions,
			data:   `{"suggestions": [{"id": 1, "original_text": "a", "suggested_text": "b", "priority": "high", "apply_to": "all"}]}`,
		},
		{
			name:   "suggestion id as string",
			schema: embedded.Suggestions,
			data:   `{"suggestions": [{"id": "3", "original_text": "a", "suggested_text": ""}]}`,
		},
		{
			name:   "incomplete items are left to the decoder",
			schema: embedded.Suggestions,
			data:   `{"suggestions": [{"suggested_text": "orphan"}, {"original_text": "a", "priority": "High", "apply_to": "some"}, "not an object"]}`,
		},
		{
			name:      "suggestion text must be a string",
			schema:    embedded.Suggestions,
			data:      `{"suggestions": [{"original_text": 5, "suggested_text": "b"}]}`,
			wantError: true,
			wantField: "suggestions.0.original_text",
		},
		{
			name:      "suggestions must be a list",
			schema:    embedded.Suggestions,
			data:      `{"suggestions": "none"}`,
			wantError: true,
		},
		{
			name:      "sections need a name",
			schema:    embedded.Sections,
			data:      `{"preamble": "", "sections": [{"name": "", "body": "x"}]}`,
			wantError: true,
		},
		{
			name:   "parsed document",
			schema: embedded.ParsedDocument,
			data:   `{"full_text": "Jane\n\n## Experience\nx", "preamble": "Jane", "sections": [{"name": "experience", "body": "x"}]}`,
		},
		{
			name:      "apply request without resume",
			schema:    embedded.ApplyRequest,
			data:      `{"original_resume": "", "accepted_suggestion_ids": [1], "all_suggestions": []}`,
			wantError: true,
		},
		{
			name:      "malformed document",
			schema:    embedded.Sections,
			data:      `{"preamble":`,
			wantError: true,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytes(tt.schema, []byte(tt.data))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
			require.NotEmpty(t, validationErr.Errors)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, validationErr.Errors[0].Field)
			}
		})
	}
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := ValidateBytes("job_profile.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "job_profile.schema.json")
}

func TestValidateJSON_NestedFieldFromFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "wrapper.schema.json", `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {"$ref": "person.schema.json"}
		}
	}`)
	writeFile(t, dir, "person.schema.json", personSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"person": {}}`)

	err := ValidateJSON(schemaPath, jsonPath)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
	assert.Equal(t, "person", validationErr.Errors[0].Field)
	assert.Equal(t, "required", validationErr.Errors[0].Rule)
}

func TestValidateBytes_ErrorsSortedByField(t *testing.T) {
	err := ValidateBytes(embedded.ParsedDocument, []byte(`{"sections": [{"name": 1, "body": 2}]}`))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Greater(t, len(validationErr.Errors), 1)
	for i := 1; i < len(validationErr.Errors); i++ {
		assert.LessOrEqual(t, validationErr.Errors[i-1].Field, validationErr.Errors[i].Field)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "sections.schema.json",
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	assert.Equal(t, "validation against sections.schema.json failed: name: is required; age: must be a number", err.Error())
	assert.NotContains(t, (&ValidationError{Errors: []FieldError{{Field: RootField, Message: "x"}}}).Error(), "\n")
}
