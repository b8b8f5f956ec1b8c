package parsing

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeContactIntoPreamble(t *testing.T) {
	contact := &types.ExtractedContact{
		Phones:        []string{"(555) 123-4567"},
		Emails:        []string{"jane@example.com"},
		LinkedInURLs:  []string{"https://www.linkedin.com/in/janedoe"},
		PortfolioURLs: []string{"https://janedoe.dev"},
		Location:      "Brooklyn, NY",
	}

	tests := []struct {
		name     string
		preamble string
		expected string
	}{
		{
			name:     "Everything missing",
			preamble: "Jane Doe",
			expected: "Jane Doe\n\nBrooklyn, NY · (555) 123-4567 · jane@example.com · https://www.linkedin.com/in/janedoe · https://janedoe.dev",
		},
		{
			name:     "Only missing items are added",
			preamble: "Jane Doe\nJANE@example.com | linkedin.com/in/janedoe",
			expected: "Jane Doe\nJANE@example.com | linkedin.com/in/janedoe\n\nBrooklyn, NY · (555) 123-4567 · https://janedoe.dev",
		},
		{
			name:     "Nothing missing",
			preamble: "Jane Doe, Brooklyn, NY (555) 123-4567 jane@example.com linkedin.com/in/janedoe janedoe.dev",
			expected: "Jane Doe, Brooklyn, NY (555) 123-4567 jane@example.com linkedin.com/in/janedoe janedoe.dev",
		},
		{
			name:     "Empty preamble",
			preamble: "  ",
			expected: "Brooklyn, NY · (555) 123-4567 · jane@example.com · https://www.linkedin.com/in/janedoe · https://janedoe.dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeContactIntoPreamble(tt.preamble, contact))
		})
	}
}

func TestAssemble(t *testing.T) {
	p := Default()
	secs := []types.Section{
		{Name: "Professional Experience", Body: "Job A"},
		{Name: "skills", Body: "Go"},
		{Name: "experience", Body: "Job B"},
		{Name: "Open Source", Body: "Maintainer of a CLI"},
	}
	contact := &types.ExtractedContact{Emails: []string{"jane@example.com"}}

	doc := p.Assemble("Jane Doe", secs, contact)

	assert.Equal(t, "Jane Doe\n\njane@example.com", doc.Preamble)
	assert.Equal(t, []types.Section{
		{Name: "experience", Body: "Job A\nJob B"},
		{Name: "skills", Body: "Go"},
		{Name: "open_source", Body: "Maintainer of a CLI"},
	}, doc.Sections)
	assert.Equal(t,
		"Jane Doe\n\njane@example.com\n\n## Experience\n\nJob A\nJob B\n\n## Skills\n\nGo\n\n## Open Source\n\nMaintainer of a CLI",
		doc.FullText)
}

func TestAssemble_NilContact(t *testing.T) {
	doc := Default().Assemble("  Jane  ", nil, nil)
	assert.Equal(t, "Jane", doc.Preamble)
	assert.Equal(t, "Jane", doc.FullText)
	assert.NotNil(t, doc.Sections)
	assert.Empty(t, doc.Sections)
}

func TestParseText_ContactFoundOutsidePreamble(t *testing.T) {
	raw := "Jane Doe\n\nExperience\nAcme\n\nReferences\nReach me at jane@example.com"
	doc := ParseText(raw)

	assert.Equal(t, "Jane Doe\n\njane@example.com", doc.Preamble)
	body, ok := doc.Section("other")
	require.True(t, ok)
	assert.Equal(t, "Reach me at jane@example.com", body)
	assert.Equal(t,
		"Jane Doe\n\njane@example.com\n\n## Experience\n\nAcme\n\n## Other\n\nReach me at jane@example.com",
		doc.FullText)
}

func TestParseText_NoHeaders(t *testing.T) {
	doc := ParseText("Just some text\nwrapped over lines.")
	assert.Equal(t, "Just some text wrapped over lines.", doc.Preamble)
	assert.Empty(t, doc.Sections)
	assert.Equal(t, doc.Preamble, doc.FullText)
}

func TestFormatContactLine(t *testing.T) {
	contact := &types.ExtractedContact{
		Phones:    []string{"555-123-4567"},
		OtherURLs: []string{"https://blog.example.org"},
		Location:  "Austin, TX",
	}
	assert.Equal(t, "Austin, TX · 555-123-4567 · https://blog.example.org", FormatContactLine(contact))
	assert.Equal(t, "", FormatContactLine(&types.ExtractedContact{}))
}
