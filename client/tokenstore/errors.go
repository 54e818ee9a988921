package tokenstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFetcher is returned by a store that has no way to reach the server.
	ErrNoFetcher = errors.New("tokenstore: no fetcher configured")
	// ErrEmptyToken is returned when the server answers without a token.
	ErrEmptyToken = errors.New("tokenstore: server returned an empty access token")
	// ErrMissingEndpoint is returned when an HTTP fetcher has no endpoint.
	ErrMissingEndpoint = errors.New("tokenstore: access token endpoint is required")
)

// StatusError is a non-2xx answer from the access-token endpoint.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("tokenstore: access token endpoint returned %d", e.StatusCode)
}

// panicError converts a recovered panic value into an error. Errors pass
// through unchanged; anything else is wrapped in its printed form.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
