package deck

import (
	"errors"
	"strings"
)

var (
	ErrInvalidResult = errors.New("deck: parse result is not valid")
	ErrNotFound      = errors.New("deck: not found")
)

// ValidationError carries the validator issues that blocked an import.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidResult.Error() + ": " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidResult }

// First returns the issue to show the learner.
func (e *ValidationError) First() string {
	if len(e.Issues) == 0 {
		return ""
	}
	return e.Issues[0]
}
