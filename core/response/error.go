package response

import (
	"errors"
	"net/http"
)

// HTTPError is a structured error body: {"error": {"message": ..., "description": ...}}.
type HTTPError struct {
	Status      int    `json:"-"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithDescription returns a copy of the error with a user-facing description.
func (e HTTPError) WithDescription(d string) HTTPError {
	e.Description = d
	return e
}

// Predefined errors used by the auth and health handlers.
var (
	ErrBadRequest          = HTTPError{Status: http.StatusBadRequest, Message: "Bad request"}
	ErrUnauthorized        = HTTPError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrInternalServerError = HTTPError{Status: http.StatusInternalServerError, Message: "Something went wrong"}
	ErrServiceUnavailable  = HTTPError{Status: http.StatusServiceUnavailable, Message: "Service unavailable"}
)

// Error writes err as a JSON error body. Errors that are not HTTPError are
// reported as 500 without exposing their text.
func Error(w http.ResponseWriter, err error) error {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = ErrInternalServerError
	}
	if httpErr.Status == 0 {
		httpErr.Status = http.StatusInternalServerError
	}

	return JSON(w, httpErr.Status, map[string]HTTPError{"error": httpErr})
}
