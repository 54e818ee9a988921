package httpretry_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/core/httpretry"
)

func TestCheckRetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dialErr := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
	readErr := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}}

	tests := []struct {
		name   string
		status int
		err    error
		want   bool
	}{
		{name: "dial error", err: dialErr, want: true},
		{name: "dropped after send", err: readErr, want: false},
		{name: "unexpected eof", err: &url.Error{Op: "Post", URL: "http://x", Err: io.ErrUnexpectedEOF}, want: false},
		{name: "too many requests", status: http.StatusTooManyRequests, want: true},
		{name: "service unavailable", status: http.StatusServiceUnavailable, want: true},
		{name: "internal error", status: http.StatusInternalServerError, want: false},
		{name: "bad gateway", status: http.StatusBadGateway, want: false},
		{name: "ok", status: http.StatusOK, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.err == nil {
				resp = &http.Response{StatusCode: tt.status}
			}
			got, err := httpretry.CheckRetry(ctx, resp, tt.err)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		got, err := httpretry.CheckRetry(cctx, nil, dialErr)
		assert.False(t, got)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckRetry_WithClient(t *testing.T) {
	t.Parallel()

	serve := func(statuses ...int) (*httptest.Server, *atomic.Int32) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			n := int(calls.Add(1)) - 1
			if n < len(statuses) {
				w.WriteHeader(statuses[n])
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)
		return srv, &calls
	}

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := func() *retryablehttp.Client {
		return &retryablehttp.Client{
			HTTPClient:     http.DefaultClient,
			RetryWaitMin:   time.Millisecond,
			RetryWaitMax:   5 * time.Millisecond,
			RetryMax:       2,
			Backoff:        retryablehttp.DefaultBackoff,
			CheckRetry:     httpretry.CheckRetry,
			ErrorHandler:   retryablehttp.PassthroughErrorHandler,
			RequestLogHook: httpretry.LogHook(log, "test"),
		}
	}

	t.Run("500 is sent once", func(t *testing.T) {
		srv, calls := serve(http.StatusInternalServerError)
		resp, err := client().Post(srv.URL, "application/json", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("503 is retried", func(t *testing.T) {
		srv, calls := serve(http.StatusServiceUnavailable)
		resp, err := client().Post(srv.URL, "application/json", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
		assert.Contains(t, buf.String(), "retry_count=1")
	})
}
