package authkit

import (
	"net/http"
	"net/url"

	"github.com/dmitrymomot/authkit/core/headertrust"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/response"
	"github.com/dmitrymomot/authkit/core/session"
)

// Status tags an Auth result.
type Status string

const (
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Auth is the session as seen by a request handler. Only the fields of an
// authenticated result are populated.
type Auth struct {
	Status         Status
	User           *session.User
	SessionID      string
	OrganizationID string
	Role           string
	Roles          []string
	Permissions    []string
	Entitlements   []string
	FeatureFlags   []string
	Impersonator   *session.Impersonator
	AccessToken    string
}

// Authenticated reports whether a carries a signed-in user.
func (a Auth) Authenticated() bool {
	return a.Status == StatusAuthenticated
}

func authFromSession(sess *session.Session) Auth {
	auth := Auth{
		Status:       StatusAuthenticated,
		User:         &sess.User,
		Impersonator: sess.Impersonator,
		AccessToken:  sess.AccessToken,
	}
	if claims, err := sess.Claims(); err == nil {
		auth.SessionID = claims.SessionID
		auth.OrganizationID = claims.OrganizationID
		auth.Role = claims.Role
		auth.Roles = claims.Roles
		auth.Permissions = claims.Permissions
		auth.Entitlements = claims.Entitlements
		auth.FeatureFlags = claims.FeatureFlags
	}
	return auth
}

// FromRequest reads the session the middleware handed off for r. It never
// looks at the cookie. A request that did not pass through Middleware fails
// with *MiddlewareNotRunError.
func (m *Machine) FromRequest(r *http.Request) (Auth, error) {
	if r.Header.Get(headertrust.HeaderMiddleware) == "" {
		var u string
		if r.URL != nil {
			u = r.URL.String()
		}
		return Auth{Status: StatusUnauthenticated}, &MiddlewareNotRunError{URL: u}
	}

	sealed := r.Header.Get(headertrust.HeaderSession)
	if sealed == "" {
		return Auth{Status: StatusUnauthenticated}, nil
	}

	sess, err := m.unseal(sealed)
	if err != nil {
		m.logger.DebugContext(r.Context(), "session header discarded",
			logger.Component("authkit"),
			logger.Error(err),
		)
		return Auth{Status: StatusUnauthenticated}, nil
	}
	return authFromSession(sess), nil
}

// EnsureSignedIn returns the authenticated session for r. Otherwise it
// writes a redirect to sign-in (or an error response) and returns false;
// the caller must stop handling the request.
func (m *Machine) EnsureSignedIn(w http.ResponseWriter, r *http.Request) (Auth, bool) {
	auth, err := m.FromRequest(r)
	if err != nil {
		m.logger.ErrorContext(r.Context(), "session unavailable",
			logger.Component("authkit"),
			logger.Error(err),
		)
		_ = response.Error(w, response.ErrInternalServerError)
		return auth, false
	}
	if auth.Authenticated() {
		return auth, true
	}

	returnPathname := r.URL.RequestURI()
	if u, err := url.Parse(r.Header.Get(headertrust.HeaderURL)); err == nil && u.Path != "" {
		returnPathname = u.RequestURI()
	}

	target, err := m.AuthorizationURL(r, returnPathname)
	if err != nil {
		m.logger.ErrorContext(r.Context(), "authorization url",
			logger.Component("authkit"),
			logger.Error(err),
		)
		_ = response.Error(w, response.ErrInternalServerError)
		return auth, false
	}
	m.redirect(w, r, target)
	return auth, false
}

// TokenClaims returns the unverified claims of the current access token.
// Use them for presentation only; access decisions belong to the verifier.
func (m *Machine) TokenClaims(r *http.Request) (session.Claims, error) {
	auth, err := m.FromRequest(r)
	if err != nil {
		return session.Claims{}, err
	}
	if !auth.Authenticated() {
		return session.Claims{}, ErrUnauthenticated
	}
	return session.DecodeClaims(auth.AccessToken)
}
