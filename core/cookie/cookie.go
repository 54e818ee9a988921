package cookie

import (
	"errors"
	"net/http"
	"strings"
)

const (
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
	// DefaultName is the default session cookie name.
	DefaultName = "wos-session"
	// DefaultMaxAge is the default session cookie lifetime (400 days), the
	// longest most browsers accept.
	DefaultMaxAge = 400 * 24 * 60 * 60

	// FastName names the script-readable cookie carrying an access token
	// on the first document response.
	FastName = "workos-access-token"
	// FastMaxAge bounds how long the fast cookie survives when never consumed.
	FastMaxAge = 30
)

// Manager writes and reads the session cookie. Attributes that depend on the
// request, like Secure, are computed per call. Safe for concurrent use.
type Manager struct {
	name       string
	defaults   Options
	maxSize    int
	trustProxy bool
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum serialized cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// WithTrustProxy makes the manager believe X-Forwarded-Proto. Enable it only
// when every request arrives through a proxy that overwrites the header.
func WithTrustProxy(trust bool) ManagerOption {
	return func(m *Manager) {
		m.trustProxy = trust
	}
}

// New creates a session cookie manager. An empty name falls back to DefaultName.
func New(name string, opts ...Option) *Manager {
	if name == "" {
		name = DefaultName
	}

	// Secure defaults
	defaults := Options{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		name:     name,
		defaults: applyOptions(defaults, opts),
		maxSize:  MaxCookieSize,
	}
}

// NewWithOptions creates a manager with additional manager options.
func NewWithOptions(name string, cookieOpts []Option, managerOpts ...ManagerOption) *Manager {
	m := New(name, cookieOpts...)
	for _, opt := range managerOpts {
		opt(m)
	}
	return m
}

// Name returns the session cookie name.
func (m *Manager) Name() string {
	return m.name
}

// Get retrieves the session cookie value.
func (m *Manager) Get(r *http.Request) (string, error) {
	c, err := r.Cookie(m.name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	if c.Value == "" {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// Cookie builds the session cookie for value. Secure is set when the
// request arrived over HTTPS or the manager was configured to force it.
func (m *Manager) Cookie(r *http.Request, value string) (*http.Cookie, error) {
	c := m.build(r, value, m.defaults.MaxAge)

	// Check size limit
	if size := len(c.String()); size > m.maxSize {
		return nil, ErrCookieTooLarge{
			Name: m.name,
			Size: size,
			Max:  m.maxSize,
		}
	}

	return c, nil
}

// Expired builds a deletion cookie carrying the same attributes as the live one.
func (m *Manager) Expired(r *http.Request) *http.Cookie {
	return m.build(r, "", -1)
}

// Set appends the session cookie to h as a Set-Cookie header.
func (m *Manager) Set(h http.Header, r *http.Request, value string) error {
	c, err := m.Cookie(r, value)
	if err != nil {
		return err
	}
	h.Add("Set-Cookie", c.String())
	return nil
}

// Delete appends a Set-Cookie header that removes the session cookie (Max-Age=0).
func (m *Manager) Delete(h http.Header, r *http.Request) {
	h.Add("Set-Cookie", m.Expired(r).String())
}

func (m *Manager) build(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   maxAge,
		Secure:   m.defaults.Secure || m.Secure(r),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	}
}

// Secure reports whether r reached the application over HTTPS, consulting
// X-Forwarded-Proto only when the manager trusts the proxy.
func (m *Manager) Secure(r *http.Request) bool {
	return IsSecure(r, m.trustProxy)
}

// IsSecure reports whether the original request scheme was HTTPS. The
// client-controlled X-Forwarded-Proto header counts only when trustProxy is set.
func IsSecure(r *http.Request, trustProxy bool) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); trustProxy && proto != "" {
		return strings.EqualFold(strings.TrimSpace(strings.Split(proto, ",")[0]), "https")
	}
	return r.URL != nil && strings.EqualFold(r.URL.Scheme, "https")
}

// Fast builds the fast-path cookie. It is deliberately readable by scripts
// so the client can consume it once and skip a token request.
func Fast(token string, secure bool) *http.Cookie {
	return fast(token, FastMaxAge, secure)
}

// FastDeletion builds the cookie that removes the fast-path cookie. Its
// attributes match Fast exactly, otherwise user agents keep the original.
func FastDeletion(secure bool) *http.Cookie {
	return fast("", -1, secure)
}

func fast(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     FastName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
