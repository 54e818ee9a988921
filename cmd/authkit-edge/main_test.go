package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/client/tokenstore"
)

func TestRunToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "user_01",
		"org_id": "org_01",
		"sid":    "session_01",
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	}))
	t.Cleanup(srv.Close)

	fetcher, err := tokenstore.NewHTTPFetcher(srv.URL + "/access-token")
	require.NoError(t, err)
	store := tokenstore.New(fetcher)
	t.Cleanup(store.Reset)

	var out bytes.Buffer
	require.NoError(t, runToken(context.Background(), &out, store, false, false))

	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, out.String(), token)
	assert.Contains(t, out.String(), "subject user_01")
	assert.Contains(t, out.String(), "organization org_01")
}

func TestRunToken_FetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	fetcher, err := tokenstore.NewHTTPFetcher(srv.URL, tokenstore.WithRetryMax(0))
	require.NoError(t, err)
	store := tokenstore.New(fetcher)
	t.Cleanup(store.Reset)

	var out bytes.Buffer
	err = runToken(context.Background(), &out, store, true, false)

	var statusErr *tokenstore.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Empty(t, out.String())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	dev := newLogger(edgeConfig{Env: "development"})
	assert.True(t, dev.Enabled(ctx, slog.LevelDebug), "development logs debug")

	prod := newLogger(edgeConfig{Env: "production"})
	assert.False(t, prod.Enabled(ctx, slog.LevelDebug))

	override := newLogger(edgeConfig{Env: "production", LogLevel: "debug"})
	assert.True(t, override.Enabled(ctx, slog.LevelDebug))
}
