// Package llm - extractor.go requests schema-checked JSON from a Client.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-tailor/internal/schemas"
)

// MaxStructuredAttempts bounds how often a schema-violating answer is re-requested.
const MaxStructuredAttempts = 2

// StructuredOutputError reports a model answer that never satisfied its schema.
type StructuredOutputError struct {
	Schema   string
	Attempts int
	Cause    error
}

func (e *StructuredOutputError) Error() string {
	return fmt.Sprintf("model output did not match %s after %d attempt(s): %v", e.Schema, e.Attempts, e.Cause)
}

func (e *StructuredOutputError) Unwrap() error {
	return e.Cause
}

// GenerateStructured asks the client for JSON and validates the cleaned answer
// against the named embedded schema. When validation fails the prompt is sent
// again with the field errors appended. Transport errors are returned as-is.
func GenerateStructured(ctx context.Context, client Client, prompt string, tier ModelTier, schemaName string, verbose bool) ([]byte, error) {
	current := prompt
	var lastErr error
	for attempt := 1; attempt <= MaxStructuredAttempts; attempt++ {
		raw, err := client.GenerateJSON(ctx, current, tier)
		if err != nil {
			return nil, err
		}
		payload := []byte(CleanJSONBlock(raw))

		lastErr = schemas.ValidateBytes(schemaName, payload)
		if lastErr == nil {
			return payload, nil
		}

		var validationErr *schemas.ValidationError
		if !errors.As(lastErr, &validationErr) {
			return nil, lastErr
		}
		if verbose {
			log.Printf("[VERBOSE] %s attempt %d rejected: %d field error(s)", schemaName, attempt, len(validationErr.Errors))
		}
		current = withCorrection(prompt, validationErr)
	}
	return nil, &StructuredOutputError{Schema: schemaName, Attempts: MaxStructuredAttempts, Cause: lastErr}
}

func withCorrection(prompt string, verr *schemas.ValidationError) string {
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nYour previous answer was rejected:\n")
	for _, fe := range verr.Errors {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", fe.Field, fe.Message))
	}
	sb.WriteString("Return corrected JSON only.")
	return sb.String()
}
