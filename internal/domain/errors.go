package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateID is returned when appending a listing whose ID is already taken
	ErrDuplicateID = errors.New("listing id already exists")

	// ErrAccessRestricted signals a wrong-audience catalog view (a seller
	// browsing crops, a buyer browsing input products). It is distinct
	// from an empty result so the caller can render an access notice
	// instead of an empty grid.
	ErrAccessRestricted = errors.New("access restricted")

	// ErrNotAuthenticated is returned when an operation requires a viewer
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned by repositories for missing records
	ErrNotFound = errors.New("not found")
)

// FieldError names a single invalid or missing draft field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every failing field of a listing draft, in
// field declaration order. Validation is all-or-nothing: when a
// ValidationError is returned, no store mutation has occurred.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure and returns the error for chaining
func (e *ValidationError) Add(field, reason string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
	return e
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
