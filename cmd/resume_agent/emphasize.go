package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/suggestions"
)

var emphasizeCmd = &cobra.Command{
	Use:   "emphasize",
	Short: "Turn a bold-annotated résumé into emphasis suggestions",
	Long: `Compare a résumé with a copy in which relevant keywords were wrapped in **bold** and emit one
suggestion per changed line, ready for "merge" or "apply".`,
	RunE: runEmphasize,
}

var (
	emphasizeOriginalFile  string
	emphasizeAnnotatedFile string
	emphasizeOutputFile    string
)

func init() {
	emphasizeCmd.Flags().StringVar(&emphasizeOriginalFile, "original", "", "Path to the original résumé markdown (required)")
	emphasizeCmd.Flags().StringVar(&emphasizeAnnotatedFile, "annotated", "", "Path to the bold-annotated copy (required)")
	emphasizeCmd.Flags().StringVarP(&emphasizeOutputFile, "out", "o", "", "Path to write suggestions JSON (default stdout)")
	rootCmd.AddCommand(emphasizeCmd)
}

func runEmphasize(_ *cobra.Command, _ []string) error {
	if emphasizeOriginalFile == "" || emphasizeAnnotatedFile == "" {
		return newUsageError("--original and --annotated are required")
	}

	original, err := os.ReadFile(emphasizeOriginalFile)
	if err != nil {
		return fmt.Errorf("failed to read original: %w", err)
	}
	annotated, err := os.ReadFile(emphasizeAnnotatedFile)
	if err != nil {
		return fmt.Errorf("failed to read annotated: %w", err)
	}

	return writeSuggestions(emphasizeOutputFile, suggestions.EmphasisFromAnnotated(string(original), string(annotated)))
}
