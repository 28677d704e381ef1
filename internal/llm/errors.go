package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDiffContent is returned when generation is requested with blank input.
	ErrNoDiffContent = errors.New("no diff content available")

	// ErrContentTooLarge is returned when the input exceeds the character
	// budget. Checked before any request is issued.
	ErrContentTooLarge = errors.New("diff content exceeds the model context budget")

	// ErrGenerationFailed is returned when the backend responded without
	// usable content or the call itself failed.
	ErrGenerationFailed = errors.New("failed to generate content")
)

// InvalidBranchNameError reports a generated branch name that failed
// post-validation, carrying the offending suggestion.
type InvalidBranchNameError struct {
	Suggestion string
}

func (e *InvalidBranchNameError) Error() string {
	return fmt.Sprintf("invalid branch name suggestion: %q", e.Suggestion)
}
