package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/suggestions"
	"github.com/jonathan/resume-tailor/internal/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply accepted suggestions to a résumé",
	Long: `Apply the accepted subset of a suggestion list to résumé text. All replacements are located
against the original text and applied together, so accepting one suggestion never shifts another.

Suggestions may be a bare JSON array or an object with a "suggestions" field.`,
	RunE: runApply,
}

var (
	applyResumeFile      string
	applySuggestionsFile string
	applyAccept          []int
	applyAcceptAll       bool
	applyOutputFile      string
	applyVerbose         bool
)

func init() {
	applyCmd.Flags().StringVarP(&applyResumeFile, "resume", "r", "", "Path to résumé markdown (required)")
	applyCmd.Flags().StringVarP(&applySuggestionsFile, "suggestions", "s", "", "Path to suggestions JSON (required)")
	applyCmd.Flags().IntSliceVar(&applyAccept, "accept", nil, "Comma-separated suggestion IDs to apply")
	applyCmd.Flags().BoolVar(&applyAcceptAll, "all", false, "Apply every suggestion")
	applyCmd.Flags().StringVarP(&applyOutputFile, "out", "o", "", "Path to write the modified résumé (default stdout)")
	applyCmd.Flags().BoolVarP(&applyVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(applyCmd)
}

func runApply(_ *cobra.Command, _ []string) error {
	if applyResumeFile == "" || applySuggestionsFile == "" {
		return newUsageError("--resume and --suggestions are required")
	}
	if applyAcceptAll == (len(applyAccept) > 0) {
		return newUsageError("provide exactly one of --accept or --all")
	}

	resume, err := os.ReadFile(applyResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	all, err := readSuggestions(applySuggestionsFile)
	if err != nil {
		return err
	}

	accepted := all
	if !applyAcceptAll {
		accepted = suggestions.SelectAccepted(all, toSuggestionIDs(applyAccept))
	}

	outcome := suggestions.Plan(string(resume), accepted)
	modified, err := suggestions.Splice(string(resume), outcome.Replacements)
	if err != nil {
		return err
	}

	if applyVerbose {
		observability.NewPrinter(os.Stderr).PrintOutcome(outcome)
	}
	for _, id := range outcome.Unmatched {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: suggestion %d not applied, original text not found\n", id)
	}

	if applyOutputFile == "" {
		_, _ = fmt.Fprint(os.Stdout, modified)
		return nil
	}
	if err := os.WriteFile(applyOutputFile, []byte(modified), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Applied %d replacements\n", len(outcome.Replacements))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", applyOutputFile)
	return nil
}

func toSuggestionIDs(ids []int) []types.SuggestionID {
	out := make([]types.SuggestionID, len(ids))
	for i, id := range ids {
		out[i] = types.SuggestionID(id)
	}
	return out
}
