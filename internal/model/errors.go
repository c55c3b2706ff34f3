package model

import (
	"errors"
	"fmt"
)

// ErrFormat marks malformed input: an unparseable timestamp or a broken
// table structure. Not recovered; surfaced to the caller.
var ErrFormat = errors.New("data format error")

// ErrValidation marks a dataset that cannot be analyzed: a required column
// is missing, the dataset is empty, or a parameter is out of range. Raised
// before any computation rather than letting arithmetic fail downstream.
var ErrValidation = errors.New("data validation error")

// FormatError wraps a parsing failure with row context.
type FormatError struct {
	Row    int
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Detail, e.Err)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Detail)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ValidationError reports why a dataset or parameter was rejected.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingColumnError builds a ValidationError for an absent required column.
func MissingColumnError(column string) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf("required column %q is missing", column)}
}
