// Package cookie writes the session cookie and the fast-path access-token cookie.
//
// The session cookie is HttpOnly, SameSite=Lax, scoped to "/" and marked
// Secure only when the original request used HTTPS. A Domain attribute is
// emitted only when configured. Deletion emits Max-Age=0 with the same
// attributes as the live cookie.
//
// Cookies are appended to an http.Header rather than a ResponseWriter so the
// session engine can collect them with the rest of its internal headers:
//
//	m := cookie.New("wos-session", cookie.WithDomain("example.com"))
//	if err := m.Set(headers, r, sealed); err != nil {
//		// ErrCookieTooLarge
//	}
//	m.Delete(headers, r)
//
// # Fast Cookie
//
// Fast and FastDeletion produce the script-readable "workos-access-token"
// cookie. Both share one attribute set so the deletion always matches.
package cookie
