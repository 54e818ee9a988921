package authkit

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/core/cookie"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/response"
	"github.com/dmitrymomot/authkit/core/workos"
)

var errCallback = response.ErrInternalServerError.WithDescription(
	"Couldn't sign in. If you are not sure what happened, please contact your organization admin.",
)

// CallbackHandler completes sign-in: it exchanges the authorization code,
// seals the session into the cookie and redirects to the path carried in
// the state parameter.
func (m *Machine) CallbackHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		code := q.Get("code")
		if code == "" {
			m.callbackFailed(w, r, ErrMissingCode)
			return
		}

		resp, err := m.client.AuthenticateWithCode(ctx, workos.CodeOptions{
			Code:      code,
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			m.callbackFailed(w, r, err)
			return
		}

		sess := resp.Session()
		if err := sess.Validate(); err != nil {
			m.callbackFailed(w, r, workos.ErrIncompleteResponse)
			return
		}

		sealed, err := m.seal(sess)
		if err != nil {
			m.callbackFailed(w, r, err)
			return
		}
		if err := m.cookies.Set(w.Header(), r, sealed); err != nil {
			m.callbackFailed(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")

		m.logger.InfoContext(ctx, "signed in",
			logger.Component("authkit"),
			logger.UserID(sess.User.ID),
			logger.OrganizationID(resp.OrganizationID),
		)

		m.redirect(w, r, DecodeReturnState(q.Get("state")))
	})
}

func (m *Machine) callbackFailed(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.ErrorContext(r.Context(), "sign-in callback failed",
		logger.Component("authkit"),
		logger.Error(err),
	)
	_ = response.Error(w, errCallback)
}

// SignOut deletes the session cookie and redirects to the provider's logout
// URL, which returns the user to returnTo. Without a session it redirects
// straight to returnTo.
func (m *Machine) SignOut(w http.ResponseWriter, r *http.Request, returnTo string) error {
	target := returnTo
	if target == "" {
		target = "/"
	}

	if sess, err := m.currentSession(r); err == nil {
		if claims, err := sess.Claims(); err == nil && claims.SessionID != "" {
			logoutURL, err := m.client.LogoutURL(claims.SessionID, returnTo)
			if err != nil {
				return err
			}
			target = logoutURL
		}
	}

	if err := validateRedirectTarget(target); err != nil {
		return err
	}

	m.cookies.Delete(w.Header(), r)
	w.Header().Add("Set-Cookie", cookie.FastDeletion(m.cookies.Secure(r)).String())
	w.Header().Set("Cache-Control", "no-store")
	m.redirect(w, r, target)
	return nil
}

// SignOutHandler serves SignOut with a fixed return URL.
func (m *Machine) SignOutHandler(returnTo string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.SignOut(w, r, returnTo); err != nil {
			m.logger.ErrorContext(r.Context(), "sign out failed",
				logger.Component("authkit"),
				logger.Error(err),
			)
			_ = response.Error(w, response.ErrInternalServerError)
		}
	})
}

// accessTokenResponse is the body served by AccessTokenHandler.
type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// AccessTokenHandler serves the current access token to client scripts.
// GET returns the token the middleware resolved; POST forces a refresh,
// switching organization when the organizationId form value is set.
// Mount it behind Middleware.
func (m *Machine) AccessTokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		var (
			auth Auth
			err  error
		)
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			auth, err = m.FromRequest(r)
		case http.MethodPost:
			auth, err = m.Refresh(w, r, RefreshOptions{OrganizationID: r.FormValue("organizationId")})
		default:
			w.Header().Set("Allow", "GET, HEAD, POST")
			_ = response.Error(w, response.HTTPError{Status: http.StatusMethodNotAllowed, Message: "Method not allowed"})
			return
		}

		if err != nil || !auth.Authenticated() {
			if err != nil && !IsRefreshError(err) && !errors.Is(err, ErrUnauthenticated) {
				m.logger.ErrorContext(r.Context(), "access token unavailable",
					logger.Component("authkit"),
					logger.Error(err),
				)
			}
			_ = response.Error(w, response.ErrUnauthorized)
			return
		}

		_ = response.JSON(w, http.StatusOK, accessTokenResponse{AccessToken: auth.AccessToken})
	})
}
