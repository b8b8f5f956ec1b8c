package suggestions

import (
	"fmt"

	"github.com/jonathan/resume-tailor/internal/types"
)

// OffsetError reports a replacement whose offsets fall outside the original text.
// It signals a bug in offset bookkeeping; output is never produced in that case.
type OffsetError struct {
	SuggestionID types.SuggestionID
	Start        int
	End          int
	Length       int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("suggestion error: replacement [%d:%d] for suggestion %d is outside text of length %d",
		e.Start, e.End, e.SuggestionID, e.Length)
}

// DecodeError represents malformed suggestion data from the text-generation collaborator
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("suggestion decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("suggestion decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
