package verifier

import "errors"

var (
	// ErrMissingClientID is returned when no client id is configured.
	ErrMissingClientID = errors.New("verifier: client id is required")
	// ErrMissingJWKSURL is returned when no key-set URL is configured.
	ErrMissingJWKSURL = errors.New("verifier: jwks url is required")
	// ErrKeySet wraps failures to construct the remote key set.
	ErrKeySet = errors.New("verifier: cannot build key set")
)
