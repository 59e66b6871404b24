// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, store errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Error classes shared by services and handlers. Services wrap them with
// fmt.Errorf("%w: ...") and handlers map them back with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrInternal     = errors.New("internal error")
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// New builds an envelope using the standard status text as message.
func New(status int) *APIError {
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// WithMessage builds an envelope with a custom message.
func WithMessage(status int, msg string) *APIError {
	return &APIError{Status: status, Message: msg}
}

// StatusOf maps an error class to its HTTP status. Unknown errors are 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts an error into a client-safe envelope. Only 4xx errors
// carry their message through; 5xx always use the generic status text.
func FromError(err error) *APIError {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		return New(status)
	}
	return WithMessage(status, err.Error())
}
