package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/suggestions"
	"github.com/jonathan/resume-tailor/internal/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold emphasis suggestions into rewrite suggestions",
	Long: `Merge independently generated rewrite and emphasis suggestion lists. Emphasis whose anchor
matches a rewrite has its bolding carried onto the rewrite; the rest is kept with fresh IDs.`,
	RunE: runMerge,
}

var (
	mergeRewritesFile string
	mergeEmphasisFile string
	mergeOutputFile   string
)

func init() {
	mergeCmd.Flags().StringVar(&mergeRewritesFile, "rewrites", "", "Path to rewrite suggestions JSON (required)")
	mergeCmd.Flags().StringVar(&mergeEmphasisFile, "emphasis", "", "Path to emphasis suggestions JSON (required)")
	mergeCmd.Flags().StringVarP(&mergeOutputFile, "out", "o", "", "Path to write merged suggestions JSON (default stdout)")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(_ *cobra.Command, _ []string) error {
	if mergeRewritesFile == "" || mergeEmphasisFile == "" {
		return newUsageError("--rewrites and --emphasis are required")
	}

	rewrites, err := readSuggestions(mergeRewritesFile)
	if err != nil {
		return err
	}
	emphasis, err := readSuggestions(mergeEmphasisFile)
	if err != nil {
		return err
	}

	merged := suggestions.Merge(suggestions.AssignMissingIDs(rewrites), emphasis)
	return writeSuggestions(mergeOutputFile, merged)
}

func readSuggestions(path string) ([]types.EditSuggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	list, skipped, err := suggestions.DecodeReport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, skip := range skipped {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s: skipped %s\n", path, skip)
	}
	return list, nil
}

// writeSuggestions writes list as a SuggestionResponse to path, or to stdout
// when path is empty.
func writeSuggestions(path string, list []types.EditSuggestion) error {
	if list == nil {
		list = []types.EditSuggestion{}
	}
	jsonBytes, err := json.MarshalIndent(types.SuggestionResponse{Suggestions: list}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Wrote %d suggestions\n", len(list))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", path)
	return nil
}
