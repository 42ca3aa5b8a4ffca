package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
// These map to specific actions automation can take.
const (
	ErrCodeConfigNotFound    = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeEndpointDown      = "ENDPOINT_UNREACHABLE"
	ErrCodeBadStatus         = "UNEXPECTED_STATUS"
	ErrCodeMalformedPayload  = "MALFORMED_PAYLOAD"
	ErrCodeAddServerRejected = "ADD_SERVER_REJECTED"
	ErrCodeAddServerFailed   = "ADD_SERVER_FAILED"
	ErrCodeServeFailed       = "SERVE_FAILED"
	ErrCodeCommandFailed     = "COMMAND_FAILED"
	ErrCodeUnknown           = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	jsonErr := ErrorToJSON(err)
	env := JSONEnvelope{
		Success: false,
		Error:   jsonErr,
	}
	return writeJSONEnvelope(w, env)
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var lbErr *errors.Error
	if !stderrors.As(err, &lbErr) {
		return &JSONError{
			Code:    ErrCodeUnknown,
			Message: err.Error(),
		}
	}

	jsonErr := &JSONError{
		Code:       mapErrorCode(lbErr.Code, lbErr.Message),
		Message:    lbErr.Message,
		Suggestion: lbErr.Suggestion,
	}

	// Request errors carry the URL and HTTP status for automation.
	var fetchErr *status.FetchError
	var mutErr *status.MutationError
	switch {
	case stderrors.As(err, &fetchErr):
		jsonErr.Code = fetchErrorCode(fetchErr)
		jsonErr.Details = requestDetails(fetchErr.URL, fetchErr.StatusCode, fetchErr.Cause)
	case stderrors.As(err, &mutErr):
		if mutErr.StatusCode != 0 {
			jsonErr.Code = ErrCodeAddServerRejected
		}
		jsonErr.Details = requestDetails(mutErr.URL, mutErr.StatusCode, mutErr.Cause)
	}

	return jsonErr
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrFetch:
		return ErrCodeEndpointDown
	case errors.ErrMutation:
		return ErrCodeAddServerFailed
	case errors.ErrServe:
		return ErrCodeServeFailed
	case errors.ErrExec:
		return ErrCodeCommandFailed
	}

	return ErrCodeUnknown
}

// fetchErrorCode distinguishes the ways a status fetch can fail.
func fetchErrorCode(e *status.FetchError) string {
	switch {
	case stderrors.Is(e, status.ErrMalformedPayload):
		return ErrCodeMalformedPayload
	case e.StatusCode != 0:
		return ErrCodeBadStatus
	default:
		return ErrCodeEndpointDown
	}
}

func requestDetails(url string, code int, cause error) map[string]interface{} {
	details := map[string]interface{}{
		"url": url,
	}
	if code != 0 {
		details["status_code"] = code
		details["status_text"] = http.StatusText(code)
	}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return details
}
