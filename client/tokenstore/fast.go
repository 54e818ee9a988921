package tokenstore

import (
	"net/http"
	"net/url"

	"github.com/dmitrymomot/authkit/core/cookie"
)

// CookieFastToken reads the fast cookie from a cookie jar and deletes it
// on first read.
type CookieFastToken struct {
	Jar http.CookieJar
	URL *url.URL
}

// TakeFastToken implements FastTokenSource.
func (c CookieFastToken) TakeFastToken() (string, bool) {
	if c.Jar == nil || c.URL == nil {
		return "", false
	}

	for _, ck := range c.Jar.Cookies(c.URL) {
		if ck.Name != cookie.FastName || ck.Value == "" {
			continue
		}
		// The deletion must carry the same attributes as the original cookie.
		del := cookie.FastDeletion(c.URL.Scheme == "https")
		c.Jar.SetCookies(c.URL, []*http.Cookie{del})
		return ck.Value, true
	}
	return "", false
}
