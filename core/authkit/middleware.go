package authkit

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/authkit/core/headertrust"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/response"
)

// Middleware runs the state machine for every request. Reserved headers on
// the inbound request are replaced by the machine's own values before next
// sees the request, and only allow-listed headers reach the browser.
func (m *Machine) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := m.Update(r)
		parts := headertrust.Partition(r.Header, out.Headers)
		headertrust.Apply(w.Header(), parts.Response)

		if out.RequiresAuth && out.Redirect == "" && out.State != ValidSession && out.Err != nil {
			m.logger.ErrorContext(r.Context(), "sign-in redirect unavailable",
				logger.Component("authkit"),
				logger.Error(out.Err),
			)
			_ = response.Error(w, response.ErrInternalServerError)
			return
		}

		if out.Redirect != "" {
			if err := validateRedirectTarget(out.Redirect); err != nil {
				m.logger.ErrorContext(r.Context(), "refusing redirect",
					logger.Component("authkit"),
					logger.Error(err),
				)
				_ = response.Error(w, response.ErrInternalServerError)
				return
			}
			m.redirect(w, r, out.Redirect)
			return
		}

		ctx := r.Context()
		if out.Refreshed {
			ctx = context.WithValue(ctx, refreshedKey{}, true)
		}
		forwarded := r.Clone(ctx)
		forwarded.Header = parts.Request
		next.ServeHTTP(w, forwarded)
	})
}

// refreshedKey marks requests whose session Middleware already renewed.
type refreshedKey struct{}

func refreshedByMiddleware(r *http.Request) bool {
	v, _ := r.Context().Value(refreshedKey{}).(bool)
	return v
}
