package parsing

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		expectedPreamble string
		expectedSections []types.Section
	}{
		{
			name:             "Preamble and two sections",
			input:            "Name\n\nExperience\nJob at Co.\n\nEducation\nBS CS.",
			expectedPreamble: "Name",
			expectedSections: []types.Section{
				{Name: "experience", Body: "Job at Co."},
				{Name: "education", Body: "BS CS."},
			},
		},
		{
			name:             "Duplicate header appends body",
			input:            "Name\nExperience\nJob A\nSkills\nGo\nWork Experience\nJob B",
			expectedPreamble: "Name",
			expectedSections: []types.Section{
				{Name: "experience", Body: "Job A\nJob B"},
				{Name: "skills", Body: "Go"},
			},
		},
		{
			name:             "Header without body is dropped",
			input:            "Name\nSkills\n\nExperience\nJob",
			expectedPreamble: "Name",
			expectedSections: []types.Section{
				{Name: "experience", Body: "Job"},
			},
		},
		{
			name:             "Blank lines kept inside bodies",
			input:            "Jane\n\nSmith\nExperience\nAcme\n\nGlobex",
			expectedPreamble: "Jane\n\nSmith",
			expectedSections: []types.Section{
				{Name: "experience", Body: "Acme\n\nGlobex"},
			},
		},
		{
			name:             "Custom markdown section",
			input:            "Name\n## Volunteer Work\nFood bank",
			expectedPreamble: "Name",
			expectedSections: []types.Section{
				{Name: "volunteer_work", Body: "Food bank"},
			},
		},
		{
			name:             "No headers falls back to preamble",
			input:            "Just a paragraph\nof text.",
			expectedPreamble: "Just a paragraph\nof text.",
			expectedSections: nil,
		},
		{
			name:             "Empty input",
			input:            "  ",
			expectedPreamble: "",
			expectedSections: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preamble, secs := Segment(tt.input)
			assert.Equal(t, tt.expectedPreamble, preamble)
			assert.Equal(t, tt.expectedSections, secs)
		})
	}
}

func TestBuildFullText(t *testing.T) {
	secs := []types.Section{
		{Name: "volunteer_work", Body: "Food bank"},
		{Name: "education", Body: "BS CS."},
		{Name: "experience", Body: "Job at Co."},
		{Name: "skills", Body: "   "},
	}

	t.Run("markdown headers", func(t *testing.T) {
		got := Default().BuildFullText("Jane Doe", secs, true)
		assert.Equal(t, "Jane Doe\n\n## Experience\n\nJob at Co.\n\n## Education\n\nBS CS.\n\n## Volunteer Work\n\nFood bank", got)
	})

	t.Run("plain", func(t *testing.T) {
		got := Default().BuildFullText("Jane Doe", secs, false)
		assert.Equal(t, "Jane Doe\n\nJob at Co.\n\nBS CS.\n\nFood bank", got)
	})

	t.Run("no preamble", func(t *testing.T) {
		got := Default().BuildFullText("", secs[:2], true)
		assert.Equal(t, "## Education\n\nBS CS.\n\n## Volunteer Work\n\nFood bank", got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", Default().BuildFullText("", nil, true))
	})
}

const sampleResume = `Jane Doe
Brooklyn, NY | jane@example.com | (555) 123-4567

Summary
Backend engineer focused on
reliable distributed systems.

Experience
Acme Corp - Senior Engineer, 2019 - Present
- Built payment APIs in Go
- Led a team of 5

Education
BS Computer Science

Skills
Go, Python, PostgreSQL

Volunteer
Food bank coordinator`

func TestReassemblyRoundTrip(t *testing.T) {
	p := Default()
	doc := p.ParseText(sampleResume)
	require.NotEmpty(t, doc.Sections)

	assert.Equal(t, doc.FullText, p.BuildFullText(doc.Preamble, doc.Sections, true))

	preamble, secs := p.Segment(doc.FullText)
	assert.Equal(t, doc.Preamble, preamble)
	assert.ElementsMatch(t, doc.Sections, secs)
}

func TestSegment_NoRequiredSectionLoss(t *testing.T) {
	doc := ParseText(sampleResume)

	for _, name := range []string{"summary", "experience", "education", "skills", "other"} {
		body, ok := doc.Section(name)
		assert.True(t, ok, "section %s should be present", name)
		assert.NotEmpty(t, body, "section %s should not be empty", name)
	}
	assert.Equal(t, []string{"summary", "experience", "education", "skills", "other"}, doc.SectionNames())
}
