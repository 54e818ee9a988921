package tokenstore_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/client/tokenstore"
	"github.com/dmitrymomot/authkit/core/cookie"
)

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		c, err := r.Cookie("wos-session")
		if err != nil || c.Value != "sealed-session" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "wos-session", Value: "renewed-session", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"fresh-token"}`))
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)

	t.Run("uses and updates the jar", func(t *testing.T) {
		jar, err := cookiejar.New(nil)
		require.NoError(t, err)
		jar.SetCookies(base, []*http.Cookie{{Name: "wos-session", Value: "sealed-session", Path: "/"}})

		f, err := tokenstore.NewHTTPFetcher(srv.URL+"/auth/token", tokenstore.WithJar(jar), tokenstore.WithRetryMax(0))
		require.NoError(t, err)

		got, err := f.FetchAccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", got)

		cookies := jar.Cookies(base)
		require.Len(t, cookies, 1)
		assert.Equal(t, "renewed-session", cookies[0].Value)
	})

	t.Run("status error", func(t *testing.T) {
		f, err := tokenstore.NewHTTPFetcher(srv.URL+"/auth/token", tokenstore.WithRetryMax(0))
		require.NoError(t, err)

		_, err = f.FetchAccessToken(context.Background())
		var statusErr *tokenstore.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	})

	t.Run("server error is not resent", func(t *testing.T) {
		var calls atomic.Int32
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(failing.Close)

		f, err := tokenstore.NewHTTPFetcher(failing.URL, tokenstore.WithRetryMax(3))
		require.NoError(t, err)

		_, err = f.FetchAccessToken(context.Background())
		var statusErr *tokenstore.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := tokenstore.NewHTTPFetcher("")
		assert.ErrorIs(t, err, tokenstore.ErrMissingEndpoint)
	})
}

func TestCookieFastToken(t *testing.T) {
	t.Parallel()

	appURL, err := url.Parse("https://app.example.com/")
	require.NoError(t, err)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	fastTok := token(t, epoch, time.Hour)
	jar.SetCookies(appURL, []*http.Cookie{cookie.Fast(fastTok, true)})

	fetcher := fixed("from-server")
	store := tokenstore.New(fetcher,
		tokenstore.WithClock(newFakeClock()),
		tokenstore.WithFastTokenSource(tokenstore.CookieFastToken{Jar: jar, URL: appURL}),
	)

	got, err := store.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fastTok, got)
	assert.Zero(t, fetcher.calls.Load())
	assert.Empty(t, jar.Cookies(appURL), "fast cookie is deleted once read")

	got, err = store.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fastTok, got, "cached afterwards")
	assert.Zero(t, fetcher.calls.Load())

	_, err = store.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-server", store.Snapshot().Token)
}
