package authkit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/authkit/core/session"
)

// TokenVerifier decides whether an access token can be trusted as is.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) bool
}

// VerifierFunc adapts a function to TokenVerifier.
type VerifierFunc func(ctx context.Context, token string) bool

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) bool {
	return f(ctx, token)
}

// RedirectFunc writes a redirect response. response.Redirect has this shape.
type RedirectFunc func(w http.ResponseWriter, r *http.Request, url string, status int)

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger for the machine.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithVerifier replaces the JWKS-backed verifier.
func WithVerifier(v TokenVerifier) Option {
	return func(m *Machine) {
		if v != nil {
			m.verifier = v
		}
	}
}

// WithMetrics records outcomes on metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Machine) {
		m.metrics = metrics
	}
}

// WithTracerProvider sets the provider for refresh spans.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Machine) {
		if tp != nil {
			m.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRedirect selects a framework redirect helper. Without it redirects are
// written as a bare 307 with a Location header.
func WithRedirect(fn RedirectFunc) Option {
	return func(m *Machine) {
		m.redirectFn = fn
	}
}

// WithRefreshHooks registers callbacks invoked after every refresh exchange.
// Either may be nil.
func WithRefreshHooks(onSuccess func(ctx context.Context, s *session.Session), onError func(ctx context.Context, err error)) Option {
	return func(m *Machine) {
		m.onRefreshSuccess = onSuccess
		m.onRefreshError = onError
	}
}

// WithSessionTTL bounds how long a sealed session can be opened.
// Zero, the default, leaves expiry to the cookie.
func WithSessionTTL(ttl time.Duration) Option {
	return func(m *Machine) {
		m.sessionTTL = ttl
	}
}

// WithClock overrides the time source used for measurements.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}
