// Package main provides the resume_agent CLI and HTTP API server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Résumé structuring and tailoring toolkit",
	Long: `resume_agent turns uploaded résumés (PDF, DOCX, HTML or text) into canonical sectioned markdown,
extracts contact details, and applies user-accepted tailoring suggestions to the text.

Commands run locally; "serve" exposes the same operations over a REST API.`,
}

// usageError marks a command invoked with missing or conflicting flags.
// main exits with status 2 for it.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage *usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
