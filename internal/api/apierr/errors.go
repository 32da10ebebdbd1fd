package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/login"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/stats"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidCallback  = "INVALID_STEAM_RESPONSE"
	CodeInvalidSteamID   = "INVALID_STEAM_ID"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeNoValidFields    = "NO_VALID_FIELDS"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// A missing session and an expired one are distinct internally but
	// deliberately collapse into the same external 401 body
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrSessionExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid session"}}

	case errors.Is(err, model.ErrIdentityNotFound),
		errors.Is(err, model.ErrStatsNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}

	case errors.Is(err, login.ErrInvalidCallback):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCallback, "Invalid Steam response"}}
	case errors.Is(err, login.ErrInvalidSteamID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSteamID, "Invalid Steam ID"}}

	case errors.Is(err, stats.ErrNoValidFields):
		return &httpError{http.StatusBadRequest, APIError{CodeNoValidFields, "No valid fields to update"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "No token provided"}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
