package workos

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingClientID is returned when no client id is configured.
	ErrMissingClientID = errors.New("workos: client id is required")
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("workos: api key is required")
	// ErrMissingRedirectURI is returned when an authorization URL has no redirect URI.
	ErrMissingRedirectURI = errors.New("workos: redirect uri is required")
	// ErrMissingSessionID is returned when a logout URL is built without a session id.
	ErrMissingSessionID = errors.New("workos: session id is required")
	// ErrIncompleteResponse is returned when an exchange omits either token.
	ErrIncompleteResponse = errors.New("workos: response is missing tokens")
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
	ErrorCode   string `json:"error,omitempty"`
	Description string `json:"error_description,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	code := e.Code
	if code == "" {
		code = e.ErrorCode
	}
	msg := e.Message
	if msg == "" {
		msg = e.Description
	}
	return fmt.Sprintf("workos: api error %d: %s: %s", e.StatusCode, code, msg)
}
