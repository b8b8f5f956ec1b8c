package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json fence", input: "```json\n{\"suggestions\": []}\n```", expected: `{"suggestions": []}`},
		{name: "bare fence", input: "```\n{\"suggestions\": []}\n```", expected: `{"suggestions": []}`},
		{name: "fence with other language tag", input: "```javascript\n{\"id\": 1}\n```", expected: `{"id": 1}`},
		{name: "plain object", input: `{"id": 1}`, expected: `{"id": 1}`},
		{name: "surrounding whitespace", input: "\n\n  {\"id\": 1}  \n", expected: `{"id": 1}`},
		{
			name:     "preamble before object",
			input:    "Here are my suggestions for the résumé:\n{\"suggestions\": [{\"id\": 1}]}",
			expected: `{"suggestions": [{"id": 1}]}`,
		},
		{
			name:     "preamble before array",
			input:    "Sections found:\n[\"experience\", \"education\"]",
			expected: `["experience", "education"]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"id\": 1}\n\nLet me know if you want more edits.",
			expected: `{"id": 1}`,
		},
		{
			name:     "escaped quotes in strings",
			input:    `Result: {"replacement": "Shipped \"Atlas\" to prod"}`,
			expected: `{"replacement": "Shipped \"Atlas\" to prod"}`,
		},
		{
			name:     "braces inside string",
			input:    `{"original": "Built {templating} engine"} done`,
			expected: `{"original": "Built {templating} engine"}`,
		},
		{name: "unbalanced falls back to input", input: `{"id": 1`, expected: `{"id": 1`},
		{name: "no JSON at all", input: "I cannot help with that.", expected: "I cannot help with that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		open     byte
		close    byte
		expected string
	}{
		{name: "nested object", input: `{"a": {"b": [1, 2]}} tail`, open: '{', close: '}', expected: `{"a": {"b": [1, 2]}}`},
		{name: "array of objects", input: `[{"id": 1}, {"id": 2}] tail`, open: '[', close: ']', expected: `[{"id": 1}, {"id": 2}]`},
		{name: "closing bracket in string", input: `["a]b", "c"]`, open: '[', close: ']', expected: `["a]b", "c"]`},
		{name: "escaped backslash before quote", input: `{"path": "C:\\"} x`, open: '{', close: '}', expected: `{"path": "C:\\"}`},
		{name: "wrong opener", input: `[1]`, open: '{', close: '}', expected: ""},
		{name: "empty", input: "", open: '{', close: '}', expected: ""},
		{name: "never closes", input: `{"a": {"b": 1}`, open: '{', close: '}', expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractBalanced(tt.input, tt.open, tt.close))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "not fenced", stripCodeFence("not fenced"))
	assert.Equal(t, "x = 1", stripCodeFence("```\nx = 1\n```"))
	// A first line with spaces is content, not a language tag.
	assert.Equal(t, "some words\n{}", stripCodeFence("```some words\n{}\n```"))
}
