package authkit

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/dmitrymomot/authkit/core/headertrust"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/session"
	"github.com/dmitrymomot/authkit/core/workos"
)

// RefreshOptions parameterize Machine.Refresh.
type RefreshOptions struct {
	// OrganizationID switches the session into another organization.
	// Empty keeps the organization of the current access token.
	OrganizationID string
}

// refresh exchanges the session's refresh token and seals the result.
// Every failure is a *RefreshError.
func (m *Machine) refresh(r *http.Request, sess *session.Session, organizationID string) (*session.Session, string, error) {
	ctx, span := m.tracer.Start(r.Context(), "authkit.refresh")
	defer span.End()

	start := m.now()
	refreshed, sealed, err := m.exchange(ctx, r, sess, organizationID)
	m.metrics.observeRefresh(err, m.now().Sub(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		span.SetAttributes(attribute.String("authkit.outcome", RefreshFailed.String()))

		m.logger.WarnContext(ctx, "session refresh failed",
			logger.Component("authkit"),
			logger.Path(r.URL.Path),
			logger.Duration(m.now().Sub(start)),
			logger.Error(err),
		)
		if m.onRefreshError != nil {
			m.onRefreshError(ctx, err)
		}
		return nil, "", err
	}

	span.SetAttributes(attribute.String("authkit.outcome", ValidSession.String()))
	if m.onRefreshSuccess != nil {
		m.onRefreshSuccess(ctx, refreshed)
	}
	return refreshed, sealed, nil
}

func (m *Machine) exchange(ctx context.Context, r *http.Request, sess *session.Session, organizationID string) (*session.Session, string, error) {
	resp, err := m.client.AuthenticateWithRefreshToken(ctx, workos.RefreshTokenOptions{
		RefreshToken:   sess.RefreshToken,
		OrganizationID: organizationID,
		UserAgent:      r.UserAgent(),
	})
	if err != nil {
		return nil, "", &RefreshError{Cause: err}
	}

	refreshed := resp.Session()
	if err := refreshed.Validate(); err != nil {
		return nil, "", &RefreshError{Cause: err}
	}

	sealed, err := m.seal(refreshed)
	if err != nil {
		return nil, "", &RefreshError{Cause: fmt.Errorf("seal session: %w", err)}
	}
	return refreshed, sealed, nil
}

// Refresh forces a refresh exchange for the current request's session,
// writing the new cookie to w. It is how callers switch organizations.
// The session is read from the state machine's header when present and
// from the cookie otherwise. When Middleware already refreshed the session
// for this request and no organization switch is asked for, the renewed
// session is returned without another exchange.
func (m *Machine) Refresh(w http.ResponseWriter, r *http.Request, opts RefreshOptions) (Auth, error) {
	sess, err := m.currentSession(r)
	if err != nil {
		return Auth{Status: StatusUnauthenticated}, err
	}

	var currentOrg string
	if claims, err := sess.Claims(); err == nil {
		currentOrg = claims.OrganizationID
	}
	organizationID := opts.OrganizationID
	if organizationID == "" {
		organizationID = currentOrg
	}

	// The middleware renewed this session moments ago and already queued its
	// cookie. A second exchange would spend the new refresh token for nothing.
	if refreshedByMiddleware(r) && organizationID == currentOrg {
		w.Header().Set("Cache-Control", "no-store")
		return authFromSession(sess), nil
	}

	refreshed, sealed, err := m.refresh(r, sess, organizationID)
	if err != nil {
		return Auth{Status: StatusUnauthenticated}, err
	}

	if err := m.cookies.Set(w.Header(), r, sealed); err != nil {
		return Auth{Status: StatusUnauthenticated}, err
	}
	w.Header().Set("Cache-Control", "no-store")

	return authFromSession(refreshed), nil
}

// currentSession prefers the sealed session handed off by the middleware.
func (m *Machine) currentSession(r *http.Request) (*session.Session, error) {
	if sealed := r.Header.Get(headertrust.HeaderSession); sealed != "" && r.Header.Get(headertrust.HeaderMiddleware) != "" {
		sess, err := m.unseal(sealed)
		if err != nil {
			return nil, ErrUnauthenticated
		}
		return sess, nil
	}
	sess, _, err := m.readCookie(r)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return sess, nil
}
