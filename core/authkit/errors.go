package authkit

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches every configuration failure reported by New.
	ErrConfig = errors.New("authkit: invalid configuration")
	// ErrMissingRedirectURI is returned when no redirect URI is configured.
	ErrMissingRedirectURI = errors.New("authkit: redirect uri is required")
	// ErrInvalidRedirectURI is returned when the redirect URI is not an absolute http(s) URL.
	ErrInvalidRedirectURI = errors.New("authkit: redirect uri must be an absolute http or https url")
	// ErrMissingClient is returned when no identity provider client is supplied.
	ErrMissingClient = errors.New("authkit: identity provider client is required")
	// ErrUnauthenticated is returned by operations that need a session when there is none.
	ErrUnauthenticated = errors.New("authkit: no session")
	// ErrMissingCode is returned by the callback handler when the code parameter is absent.
	ErrMissingCode = errors.New("authkit: authorization code is missing")
	// ErrInvalidRedirectTarget is returned when a computed redirect is not a safe URL.
	ErrInvalidRedirectTarget = errors.New("authkit: invalid redirect target")
)

// ConfigError describes a configuration field rejected at construction time.
// errors.Is(err, ErrConfig) holds for every ConfigError.
type ConfigError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("authkit: config %s: %v", e.Field, e.Err)
}

// Unwrap exposes both ErrConfig and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}

// MiddlewareNotRunError is returned when session data is requested for a
// request that never passed through Machine.Middleware.
type MiddlewareNotRunError struct {
	URL string
}

// Error implements the error interface.
func (e *MiddlewareNotRunError) Error() string {
	msg := "authkit: session middleware did not run for this request; wrap the handler with Machine.Middleware"
	if e.URL != "" {
		msg = fmt.Sprintf("authkit: session middleware did not run for %s; wrap the handler with Machine.Middleware", e.URL)
	}
	return msg
}

// RefreshError wraps a failed refresh-token exchange.
type RefreshError struct {
	Cause error
}

// Error implements the error interface.
func (e *RefreshError) Error() string {
	return "authkit: session refresh failed: " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *RefreshError) Unwrap() error {
	return e.Cause
}

// IsRefreshError reports whether err is or wraps a *RefreshError.
func IsRefreshError(err error) bool {
	var re *RefreshError
	return errors.As(err, &re)
}
