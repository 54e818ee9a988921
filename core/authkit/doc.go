// Package authkit is the server-side session state machine.
//
// For every request the Machine decrypts the session cookie, verifies the
// access token against the provider's published keys and, when the token no
// longer verifies, exchanges the refresh token for a new pair. The result is
// handed to the downstream handler through reserved request headers and to
// the browser through an allow-listed set of response headers (see package
// headertrust). When path gating is on, requests without a usable session
// are redirected to the provider's sign-in page.
//
// Wiring with net/http:
//
//	m, err := authkit.New(cfg, client,
//		authkit.WithLogger(log),
//		authkit.WithMetrics(authkit.NewMetrics(prometheus.DefaultRegisterer)),
//		authkit.WithRedirect(response.Redirect),
//	)
//	if err != nil {
//		return err // *authkit.ConfigError or *pathmatch.RouteConfigError
//	}
//
//	mux.Handle("/callback", m.CallbackHandler())
//	mux.Handle("/auth/token", m.AccessTokenHandler())
//	handler := m.Middleware(mux)
//
// Inside handlers:
//
//	auth, err := m.FromRequest(r)
//	if err != nil {
//		// Middleware is not wired for this route.
//	}
//	if auth.Authenticated() {
//		fmt.Fprintf(w, "hello %s", auth.User.Email)
//	}
//
// Decryption failures are never surfaced: a tampered, foreign or expired
// cookie is simply no session. Refresh failures delete the cookie and are
// reported through Outcome.Err, the refresh hooks and the metrics.
package authkit
