package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes. The CLI maps them to the stable codes of the --json envelope.
const (
	ErrConfig   = "CONFIG"
	ErrFetch    = "FETCH"
	ErrMutation = "MUTATION"
	ErrServe    = "SERVE"
	ErrExec     = "EXEC"
)

// Error is a user-facing failure. It prints as
//
//	✗ <Message>
//
//	  <Cause>
//
//	  <Suggestion>
//
// with the cause and suggestion blocks omitted when empty.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New returns an Error without a cause.
func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// WrapWithCode returns an Error that keeps err as its cause.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  %s\n", e.Cause)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Suggestion)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err's chain holds an *Error with the given code.
func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
