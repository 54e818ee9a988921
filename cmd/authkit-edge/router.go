package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/authkit/core/authkit"
	"github.com/dmitrymomot/authkit/core/health"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/response"
	"github.com/dmitrymomot/authkit/middleware"
)

// newRouter wires health checks and metrics outside the session machine and every
// other route behind it.
func newRouter(log *slog.Logger, reg *prometheus.Registry, m *authkit.Machine, jwksURL, signOutReturnTo string) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.LoggingWithLogger(log),
	)

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness(log, health.URLCheck(cleanhttp.DefaultClient(), jwksURL)))
	r.Get("/ping", health.NoContent)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(), m.Middleware)

		r.Method(http.MethodGet, "/callback", m.CallbackHandler())
		r.Method(http.MethodGet, "/sign-out", m.SignOutHandler(signOutReturnTo))
		r.Handle("/access-token", m.AccessTokenHandler())

		r.Get("/sign-in", func(w http.ResponseWriter, r *http.Request) {
			target, err := m.SignInURL(r.URL.Query().Get("returnTo"))
			if err != nil {
				_ = response.Error(w, response.ErrInternalServerError)
				return
			}
			response.RedirectTemporary(w, r, target)
		})

		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			auth, ok := m.EnsureSignedIn(w, r)
			if !ok {
				return
			}
			_ = response.JSON(w, http.StatusOK, auth)
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			auth, err := m.FromRequest(r)
			if err != nil {
				log.ErrorContext(r.Context(), "session unavailable", logger.Error(err))
				_ = response.Error(w, response.ErrInternalServerError)
				return
			}
			_ = response.JSON(w, http.StatusOK, map[string]any{
				"authenticated": auth.Authenticated(),
				"user":          auth.User,
			})
		})
	})

	return r
}
