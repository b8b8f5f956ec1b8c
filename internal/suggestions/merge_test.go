package suggestions

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_MatchStrategies(t *testing.T) {
	tests := []struct {
		name     string
		rewrite  types.EditSuggestion
		emphasis types.EditSuggestion
		want     string
	}{
		{
			name:     "exact suggested text",
			rewrite:  types.EditSuggestion{ID: 1, OriginalText: "Built services", SuggestedText: "Built Go services"},
			emphasis: types.EditSuggestion{ID: 1, OriginalText: "Built Go services", SuggestedText: "Built **Go** services"},
			want:     "Built **Go** services",
		},
		{
			name:     "suggested text ignoring bullets",
			rewrite:  types.EditSuggestion{ID: 1, OriginalText: "- Built services", SuggestedText: "- Built Go services"},
			emphasis: types.EditSuggestion{ID: 1, OriginalText: "Built Go services", SuggestedText: "Built **Go** services"},
			want:     "- Built **Go** services",
		},
		{
			name:     "containment",
			rewrite:  types.EditSuggestion{ID: 1, OriginalText: "Built services", SuggestedText: "Built Go services for payments at scale"},
			emphasis: types.EditSuggestion{ID: 1, OriginalText: "Built Go services", SuggestedText: "Built **Go** services"},
			want:     "Built **Go** services for payments at scale",
		},
		{
			name:     "loose original text",
			rewrite:  types.EditSuggestion{ID: 1, OriginalText: "Managed the team", SuggestedText: "Led engineers"},
			emphasis: types.EditSuggestion{ID: 1, OriginalText: "managed  the TEAM", SuggestedText: "**Managed** the team"},
			want:     "**Led** engineers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge([]types.EditSuggestion{tt.rewrite}, []types.EditSuggestion{tt.emphasis})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].SuggestedText)
			assert.Equal(t, types.SuggestionID(1), got[0].ID)
		})
	}
}

func TestMerge_Reasons(t *testing.T) {
	rewrites := []types.EditSuggestion{
		{ID: 1, OriginalText: "a", SuggestedText: "Built Go services", Reason: "Quantify impact"},
	}
	emphasis := []types.EditSuggestion{
		{ID: 1, OriginalText: "Built Go services", SuggestedText: "Built **Go** services", Reason: "Highlight Go"},
	}

	got := Merge(rewrites, emphasis)
	require.Len(t, got, 1)
	assert.Equal(t, "Quantify impact; Highlight Go", got[0].Reason)
}

func TestMerge_StandaloneEmphasisGetsFreshIDs(t *testing.T) {
	rewrites := []types.EditSuggestion{
		{ID: 1, OriginalText: "Led a team", SuggestedText: "Led a team of six"},
		{ID: 4, OriginalText: "Managed budgets", SuggestedText: "Owned a $2M budget"},
	}
	emphasis := []types.EditSuggestion{
		{ID: 1, Section: "Skills", OriginalText: "Go, Kafka", SuggestedText: "**Go**, **Kafka**"},
		{ID: 2, Section: "Skills", OriginalText: "Go, Kafka", SuggestedText: "**Go**, Kafka"},
		{ID: 3, OriginalText: "   ", SuggestedText: "**ignored**"},
	}

	got := Merge(rewrites, emphasis)
	require.Len(t, got, 4)
	assert.Equal(t, types.SuggestionID(5), got[2].ID)
	assert.Equal(t, "**Go**, **Kafka**", got[2].SuggestedText)
	assert.Equal(t, "Skills", got[2].Section)
	assert.Equal(t, types.SuggestionID(6), got[3].ID)
}

func TestMerge_NoEmphasis(t *testing.T) {
	rewrites := []types.EditSuggestion{{ID: 1, OriginalText: "x", SuggestedText: "y"}}
	assert.Equal(t, rewrites, Merge(rewrites, nil))
}
