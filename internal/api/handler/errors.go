package handler

import (
	"net/http"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeUnauthorized     = apierr.CodeUnauthorized
	CodeInvalidCallback  = apierr.CodeInvalidCallback
	CodeInvalidSteamID   = apierr.CodeInvalidSteamID
	CodeUserNotFound     = apierr.CodeUserNotFound
	CodeNoValidFields    = apierr.CodeNoValidFields
	CodeMethodNotAllowed = apierr.CodeMethodNotAllowed
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return apierr.NewMethodNotAllowedError()
}
