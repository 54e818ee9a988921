package cookie_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/core/cookie"
)

func TestManager_Set(t *testing.T) {
	t.Parallel()

	t.Run("plain http", func(t *testing.T) {
		m := cookie.New("")
		h := http.Header{}
		r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)

		require.NoError(t, m.Set(h, r, "sealed"))
		assert.Equal(t, "wos-session=sealed; Path=/; Max-Age=34560000; HttpOnly; SameSite=Lax", h.Get("Set-Cookie"))
	})

	t.Run("https request is secure", func(t *testing.T) {
		m := cookie.New("custom")
		h := http.Header{}
		r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
		r.TLS = &tls.ConnectionState{}

		require.NoError(t, m.Set(h, r, "v"))
		assert.Contains(t, h.Get("Set-Cookie"), "custom=v;")
		assert.Contains(t, h.Get("Set-Cookie"), "; Secure")
	})

	t.Run("forwarded proto ignored by default", func(t *testing.T) {
		m := cookie.New("")
		h := http.Header{}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-Proto", "https")

		require.NoError(t, m.Set(h, r, "v"))
		assert.NotContains(t, h.Get("Set-Cookie"), "Secure")
		assert.False(t, m.Secure(r))
	})

	t.Run("forwarded proto behind trusted proxy", func(t *testing.T) {
		m := cookie.NewWithOptions("", nil, cookie.WithTrustProxy(true))
		h := http.Header{}
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-Proto", "https, http")

		require.NoError(t, m.Set(h, r, "v"))
		assert.Contains(t, h.Get("Set-Cookie"), "; Secure")
	})

	t.Run("trust proxy from config", func(t *testing.T) {
		cfg := cookie.DefaultConfig()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-Proto", "https")

		assert.False(t, cookie.NewFromConfig(cfg).Secure(r))
		cfg.TrustProxy = true
		assert.True(t, cookie.NewFromConfig(cfg).Secure(r))
	})

	t.Run("domain only when configured", func(t *testing.T) {
		h := http.Header{}
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, cookie.New("", cookie.WithDomain("example.com")).Set(h, r, "v"))
		assert.Contains(t, h.Get("Set-Cookie"), "Domain=example.com")

		h = http.Header{}
		require.NoError(t, cookie.New("").Set(h, r, "v"))
		assert.NotContains(t, h.Get("Set-Cookie"), "Domain=")
	})

	t.Run("too large", func(t *testing.T) {
		m := cookie.NewWithOptions("", nil, cookie.WithMaxSize(64))
		h := http.Header{}
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		err := m.Set(h, r, strings.Repeat("a", 100))
		var tooLarge cookie.ErrCookieTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "wos-session", tooLarge.Name)
		assert.Equal(t, 64, tooLarge.Max)
		assert.Empty(t, h.Values("Set-Cookie"))
	})
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := cookie.New("", cookie.WithDomain("example.com"))
	h := http.Header{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	m.Delete(h, r)
	assert.Equal(t, "wos-session=; Path=/; Domain=example.com; Max-Age=0; HttpOnly; SameSite=Lax", h.Get("Set-Cookie"))
}

func TestManager_Get(t *testing.T) {
	t.Parallel()

	m := cookie.New("")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := m.Get(r)
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	r.AddCookie(&http.Cookie{Name: "wos-session", Value: "abc"})
	v, err := m.Get(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestFastCookie(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "workos-access-token=tok; Path=/; Max-Age=30; SameSite=Lax", cookie.Fast("tok", false).String())
	assert.Equal(t, "workos-access-token=tok; Path=/; Max-Age=30; Secure; SameSite=Lax", cookie.Fast("tok", true).String())

	// Deletion keeps every attribute except value and lifetime.
	assert.Equal(t, "workos-access-token=; Path=/; Max-Age=0; SameSite=Lax", cookie.FastDeletion(false).String())
	assert.Equal(t, "workos-access-token=; Path=/; Max-Age=0; Secure; SameSite=Lax", cookie.FastDeletion(true).String())
	assert.False(t, cookie.Fast("tok", true).HttpOnly)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m := cookie.NewFromConfig(cookie.Config{
		Name:     "sess",
		Domain:   "example.org",
		MaxAge:   60,
		SameSite: "none",
	})

	h := http.Header{}
	require.NoError(t, m.Set(h, httptest.NewRequest(http.MethodGet, "/", nil), "v"))
	assert.Equal(t, "sess=v; Path=/; Domain=example.org; Max-Age=60; HttpOnly; Secure; SameSite=None", h.Get("Set-Cookie"))
	assert.Equal(t, "sess", m.Name())

	d := cookie.NewFromConfig(cookie.DefaultConfig())
	assert.Equal(t, cookie.DefaultName, d.Name())
}
