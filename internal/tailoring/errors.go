package tailoring

import "fmt"

// RequestError reports an invalid tailoring request
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailoring request error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("tailoring request error: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// GenerationError represents a failed call to the text-generation collaborator
// or an answer that could not be used
type GenerationError struct {
	Step    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s generation failed: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Step, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
