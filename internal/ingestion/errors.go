package ingestion

import "fmt"

// DecodeError represents a document that an extractor could not decode.
// Unlike unknown MIME types, which fall back to plain text, decode failures
// are returned to the caller.
type DecodeError struct {
	MIMEType string
	Message  string
	Cause    error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error (%s): %s: %v", e.MIMEType, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error (%s): %s", e.MIMEType, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
