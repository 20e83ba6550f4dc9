package task

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for task operations.
var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidSubtaskIndex is returned when a subtask index is out of range.
	ErrInvalidSubtaskIndex = errors.New("invalid subtask index")

	// ErrValidation is the sentinel wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// RequiredMessage is the per-field message used for missing required input.
const RequiredMessage = "This field is required."

// ValidationError lists the fields that failed the required-field checks.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
