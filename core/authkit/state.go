package authkit

import (
	"net/http"

	"github.com/dmitrymomot/authkit/core/session"
)

// State is the position of a request in the session state machine.
type State int

const (
	// NoSession means the cookie was absent, undecryptable or incomplete.
	NoSession State = iota
	// ValidSession means the access token verified, possibly after a refresh.
	ValidSession
	// RefreshingSession is the transient state while the refresh exchange runs.
	RefreshingSession
	// RefreshFailed means the refresh exchange was rejected or failed.
	RefreshFailed
)

// String returns the lowercase metric label for s.
func (s State) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case ValidSession:
		return "valid_session"
	case RefreshingSession:
		return "refreshing_session"
	case RefreshFailed:
		return "refresh_failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of running the state machine for one request.
type Outcome struct {
	State State
	// Session is set in ValidSession.
	Session *session.Session
	// Headers holds every internally produced header: reserved request
	// headers and browser-visible response headers alike. Pass it through
	// headertrust.Partition before use.
	Headers http.Header
	// Redirect is the authorization URL when the request must sign in first.
	Redirect string
	// RequiresAuth reports whether the path is gated.
	RequiresAuth bool
	// Refreshed reports whether the session was renewed during this request.
	Refreshed bool
	// Err holds a recovered failure, such as a *RefreshError.
	Err error
}
