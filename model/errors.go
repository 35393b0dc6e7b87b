package model

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these so that callers can use
// errors.Is to decide how to report them.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
	ErrStore      = errors.New("store error")
	ErrRender     = errors.New("render error")
	ErrExport     = errors.New("export error")
	ErrIO         = errors.New("io error")
)

// ValidationError names the offending input together with the reason it was
// rejected.
type ValidationError struct {
	Err     error
	Input   string
	Details string
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Input != "" {
		msg = fmt.Sprintf("%s '%s'", msg, e.Input)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(input, details string) error {
	return &ValidationError{Err: ErrValidation, Input: input, Details: details}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
