package status

import (
	"errors"
	"fmt"
)

// User-facing messages recorded in State.ErrorMessage.
const (
	FetchFailedMessage     = "Failed to fetch server data."
	AddServerFailedMessage = "Failed to add server."
)

var (
	// ErrUnexpectedStatus is the cause when the endpoint answers outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrMalformedPayload is the cause when a 2xx body cannot be used.
	ErrMalformedPayload = errors.New("malformed payload")
)

// FetchError describes a failed snapshot fetch. StatusCode is zero when no
// response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// MutationError describes a failed add-server request.
type MutationError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *MutationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("add server %s: status %d: %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("add server %s: %v", e.URL, e.Cause)
}

func (e *MutationError) Unwrap() error {
	return e.Cause
}
