package response

import "net/http"

// HTMX headers used by Redirect.
const (
	HeaderHXRequest  = "HX-Request"
	HeaderHXLocation = "HX-Location"
	HeaderHXRedirect = "HX-Redirect"
)

// Redirect sends the client to url with the given status. For HTMX requests
// (HX-Request: true) it replies 200 with HX-Redirect instead, because HTMX
// follows 3xx responses transparently and would swap the target page into
// the current one.
func Redirect(w http.ResponseWriter, r *http.Request, url string, status int) {
	if r.Header.Get(HeaderHXRequest) == "true" {
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, status)
}

// RedirectTemporary is Redirect with 307, preserving the request method.
func RedirectTemporary(w http.ResponseWriter, r *http.Request, url string) {
	Redirect(w, r, url, http.StatusTemporaryRedirect)
}
