package session

import "errors"

var (
	// ErrIncomplete is returned for a session record missing either token.
	ErrIncomplete = errors.New("session: access and refresh tokens must both be present")
	// ErrMalformedToken is returned when a token cannot be decoded as a JWT.
	ErrMalformedToken = errors.New("session: malformed token")
)
