package relay

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or turn failed validation.
	ErrValidation = errors.New("validation error")

	// ErrBusy indicates Send was called while a previous send is outstanding.
	ErrBusy = errors.New("session busy: previous message still in flight")

	// ErrEmptyMessage indicates Send was called with no text and no attachments.
	ErrEmptyMessage = errors.New("empty message")

	// ErrNoCandidates indicates the API returned a response without any
	// usable candidate text.
	ErrNoCandidates = errors.New("response contained no candidates")

	// ErrUnknownModel indicates a model ID not present in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrAttachmentTooLarge indicates an attachment exceeds MaxAttachmentSize.
	ErrAttachmentTooLarge = errors.New("attachment too large")

	// ErrUnsupportedAttachment indicates an attachment type is not accepted.
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")
)

// APIError is a non-2xx response from the generative API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 if err does not
// wrap an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ErrorKind is the user-facing category of a failed send.
type ErrorKind int

const (
	ErrorGeneric ErrorKind = iota
	ErrorCredential
	ErrorQuota
	ErrorRateLimit
)

// String returns a short lowercase name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorCredential:
		return "credential"
	case ErrorQuota:
		return "quota"
	case ErrorRateLimit:
		return "rate_limit"
	default:
		return "generic"
	}
}

// ClassifyError maps a send failure to an ErrorKind. Checks run in order:
// invalid key, quota, rate limit. Everything else is generic.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorGeneric
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key not valid"):
		return ErrorCredential
	case strings.Contains(msg, "quota"):
		return ErrorQuota
	case StatusCode(err) == http.StatusTooManyRequests, strings.Contains(msg, "429"):
		return ErrorRateLimit
	default:
		return ErrorGeneric
	}
}

// ErrorText returns the user-visible notice text for a failed send.
// Credential and generic failures include the error message as received.
func ErrorText(err error) string {
	switch ClassifyError(err) {
	case ErrorCredential:
		return "Error: invalid API key: " + err.Error()
	case ErrorQuota:
		return "Error: API quota exceeded."
	case ErrorRateLimit:
		return "Error: too many requests. Please wait a moment."
	default:
		return "Error: " + err.Error()
	}
}
