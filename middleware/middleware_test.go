package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid", func(t *testing.T) {
		var captured string
		h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := middleware.GetRequestID(r.Context())
			assert.True(t, ok, "Request ID should be present in context")
			captured = id
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Len(t, captured, 36, "Default ID should be UUID v4 format")
		assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator and header", func(t *testing.T) {
		h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator:  func() string { return "custom-123" },
			HeaderName: "X-Trace",
		})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "custom-123", w.Header().Get("X-Trace"))
	})

	t.Run("uses existing id when allowed", func(t *testing.T) {
		h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true})(
			http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "upstream-id")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
	})

	t.Run("ignores existing id by default", func(t *testing.T) {
		h := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "spoofed")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.NotEqual(t, "spoofed", w.Header().Get("X-Request-ID"))
	})

	t.Run("skip", func(t *testing.T) {
		h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Skip: func(r *http.Request) bool { return r.URL.Path == "/health" },
		})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := middleware.GetRequestID(r.Context())
			assert.False(t, ok)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, w.Header().Get("X-Request-ID"))
	})
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs request and response", func(t *testing.T) {
		var buf bytes.Buffer
		h := middleware.RequestID()(middleware.LoggingWithLogger(newLogger(&buf))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("hello"))
			}),
		))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items?x=1", nil))

		out := buf.String()
		assert.Contains(t, out, "HTTP request started")
		assert.Contains(t, out, "HTTP request completed")
		assert.Contains(t, out, "status_code=201")
		assert.Contains(t, out, "bytes_out=5")
		assert.Contains(t, out, "request_id="+w.Header().Get("X-Request-ID"))
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		var buf bytes.Buffer
		h := middleware.LoggingWithLogger(newLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, buf.String(), "level=ERROR")
	})

	t.Run("redacts session material", func(t *testing.T) {
		var buf bytes.Buffer
		h := middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger:     newLogger(&buf),
			LogHeaders: true,
		})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "wos-session", Value: "sealed-response"})
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Cookie", "wos-session=sealed-request")
		r.Header.Set("X-Workos-Session", "sealed-header")
		r.Header.Set("Accept", "text/html")
		h.ServeHTTP(httptest.NewRecorder(), r)

		out := buf.String()
		assert.NotContains(t, out, "sealed-request")
		assert.NotContains(t, out, "sealed-header")
		assert.NotContains(t, out, "sealed-response")
		assert.Contains(t, out, "text/html")
	})

	t.Run("request body", func(t *testing.T) {
		var buf bytes.Buffer
		var seen string
		h := middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger:         newLogger(&buf),
			LogRequestBody: true,
			MaxBodyLogSize: 4,
		})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(strings.Builder)
			_, err := b.ReadFrom(r.Body)
			require.NoError(t, err)
			seen = b.String()
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abcdefgh")))
		assert.Equal(t, "abcdefgh", seen, "body is restored for the handler")
		assert.Contains(t, buf.String(), "request_body=abcd")
		assert.Contains(t, buf.String(), "request_body_truncated=true")
	})

	t.Run("skip", func(t *testing.T) {
		var buf bytes.Buffer
		h := middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: newLogger(&buf),
			Skip:   func(r *http.Request) bool { return true },
		})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, buf.String())
	})
}
