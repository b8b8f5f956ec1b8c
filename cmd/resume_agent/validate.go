package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/schemas"
	embedded "github.com/jonathan/resume-tailor/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON Schema",
	Long: fmt.Sprintf(`Validate a JSON document against a schema file on disk or one of the built-in schemas:
  %s

Exits with status 1 when the document does not validate.`, strings.Join(embedded.Names(), "\n  ")),
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema file path or built-in schema name (required)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to JSON file (required)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	if validateSchema == "" {
		return newUsageError("--schema is required")
	}
	if validateJSON == "" {
		return newUsageError("--json is required")
	}

	err := schemas.ValidateJSON(validateSchema, validateJSON)
	if err == nil {
		_, _ = fmt.Fprintf(os.Stdout, "Validation passed: %s\n", validateJSON)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(os.Stdout, "Validation failed: %s\n", validateJSON)
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(os.Stdout, "  - %s: %s\n", fe.Field, fe.Message)
		}
	}
	return err
}
