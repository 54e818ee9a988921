package authkit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/authkit/core/cookie"
	"github.com/dmitrymomot/authkit/core/envelope"
	"github.com/dmitrymomot/authkit/core/headertrust"
	"github.com/dmitrymomot/authkit/core/logger"
	"github.com/dmitrymomot/authkit/core/pathmatch"
	"github.com/dmitrymomot/authkit/core/session"
	"github.com/dmitrymomot/authkit/core/verifier"
	"github.com/dmitrymomot/authkit/core/workos"
)

const tracerName = "github.com/dmitrymomot/authkit/core/authkit"

// Machine runs the per-request session lifecycle: decrypt, verify, refresh,
// hand off headers and decide between continuing and redirecting.
// It holds no per-request state and is safe for concurrent use.
type Machine struct {
	cfg    Config
	client workos.Client

	codec    *envelope.Codec
	cookies  *cookie.Manager
	verifier TokenVerifier

	unauthenticated pathmatch.Set
	signUp          pathmatch.Set

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time

	redirectFn RedirectFunc
	redirect   func(w http.ResponseWriter, r *http.Request, target string)

	onRefreshSuccess func(ctx context.Context, s *session.Session)
	onRefreshError   func(ctx context.Context, err error)
	sessionTTL       time.Duration
}

// New validates cfg and builds a Machine. Configuration problems are
// reported as *ConfigError, bad path patterns as *pathmatch.RouteConfigError.
func New(cfg Config, client workos.Client, opts ...Option) (*Machine, error) {
	if client == nil {
		return nil, &ConfigError{Field: "Client", Err: ErrMissingClient}
	}

	callback, err := validateRedirectURI(cfg.RedirectURI)
	if err != nil {
		return nil, err
	}

	codec, err := envelope.NewFromConfig(cfg.Envelope)
	if err != nil {
		return nil, &ConfigError{Field: "Envelope.Password", Err: err}
	}

	unauthenticated, err := pathmatch.CompileAll(unauthenticatedPatterns(cfg, callback))
	if err != nil {
		return nil, err
	}
	signUp, err := pathmatch.CompileAll(cfg.SignUpPaths)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		cfg:             cfg,
		client:          client,
		codec:           codec,
		cookies:         cookie.NewFromConfig(cfg.Cookie),
		unauthenticated: unauthenticated,
		signUp:          signUp,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:          otel.Tracer(tracerName),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.verifier == nil {
		v, err := verifier.New(client.ClientID(), client.JWKSURL(), verifier.WithLogger(m.logger))
		if err != nil {
			return nil, &ConfigError{Field: "Client", Err: err}
		}
		m.verifier = v
	}

	m.redirect = rawRedirect
	if fn := m.redirectFn; fn != nil {
		m.redirect = func(w http.ResponseWriter, r *http.Request, target string) {
			fn(w, r, target, http.StatusTemporaryRedirect)
		}
	}

	return m, nil
}

// CookieName returns the session cookie name.
func (m *Machine) CookieName() string {
	return m.cookies.Name()
}

// RequiresAuth reports whether pathname is gated behind a session.
func (m *Machine) RequiresAuth(pathname string) bool {
	return m.cfg.MiddlewareAuth && !m.unauthenticated.Match(pathname)
}

// Update runs the state machine for r. It never fails: decryption and
// refresh errors degrade to an unauthenticated outcome, optionally with a
// redirect to sign-in.
func (m *Machine) Update(r *http.Request) *Outcome {
	ctx := r.Context()
	out := &Outcome{
		Headers:      m.baseHeaders(r),
		RequiresAuth: m.RequiresAuth(r.URL.Path),
	}
	defer m.record(r, out)

	sess, sealed, err := m.readCookie(r)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			m.logger.DebugContext(ctx, "session cookie discarded",
				logger.Component("authkit"),
				logger.Error(err),
			)
		}
		out.State = NoSession
		m.gate(r, out)
		return out
	}

	if m.verifier.Verify(ctx, sess.AccessToken) {
		out.State = ValidSession
		out.Session = sess
		out.Headers.Set(headertrust.HeaderSession, sealed)
		m.eager(r, out)
		return out
	}

	out.State = RefreshingSession
	organizationID := ""
	if claims, err := sess.Claims(); err == nil {
		organizationID = claims.OrganizationID
	}

	refreshed, sealed, err := m.refresh(r, sess, organizationID)
	if err != nil {
		out.State = RefreshFailed
		out.Err = err
		m.cookies.Delete(out.Headers, r)
		m.gate(r, out)
		return out
	}

	out.State = ValidSession
	out.Session = refreshed
	out.Refreshed = true
	if err := m.cookies.Set(out.Headers, r, sealed); err != nil {
		m.logger.ErrorContext(ctx, "refreshed session cookie not written",
			logger.Component("authkit"),
			logger.Error(err),
		)
	}
	out.Headers.Set(headertrust.HeaderSession, sealed)
	m.eager(r, out)
	return out
}

// baseHeaders returns the reserved headers every request carries downstream.
func (m *Machine) baseHeaders(r *http.Request) http.Header {
	h := http.Header{}
	h.Set(headertrust.HeaderMiddleware, "true")
	h.Set(headertrust.HeaderURL, m.requestURL(r))
	h.Set(headertrust.HeaderRedirectURI, m.cfg.RedirectURI)
	if len(m.cfg.SignUpPaths) > 0 {
		h.Set(headertrust.HeaderSignUpPaths, strings.Join(m.cfg.SignUpPaths, ","))
	}
	return h
}

// gate sets the sign-in redirect for unauthenticated requests to gated paths.
func (m *Machine) gate(r *http.Request, out *Outcome) {
	if !out.RequiresAuth {
		return
	}
	target, err := m.AuthorizationURL(r, r.URL.RequestURI())
	if err != nil {
		out.Err = errors.Join(out.Err, err)
		return
	}
	out.Redirect = target
}

// readCookie decrypts the session cookie and rejects incomplete records.
func (m *Machine) readCookie(r *http.Request) (*session.Session, string, error) {
	sealed, err := m.cookies.Get(r)
	if err != nil {
		return nil, "", err
	}
	sess, err := m.unseal(sealed)
	if err != nil {
		return nil, "", err
	}
	return sess, sealed, nil
}

func (m *Machine) unseal(sealed string) (*session.Session, error) {
	var sess session.Session
	if err := m.codec.Unseal(sealed, &sess); err != nil {
		return nil, err
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *Machine) seal(sess *session.Session) (string, error) {
	return m.codec.Seal(sess, m.sessionTTL)
}

// eager appends the fast cookie on initial document loads.
func (m *Machine) eager(r *http.Request, out *Outcome) {
	if !m.cfg.EagerAuth || out.Session == nil {
		return
	}
	if r.Method != http.MethodGet || r.Header.Get("Sec-Fetch-Dest") != "document" {
		return
	}
	out.Headers.Add("Set-Cookie", cookie.Fast(out.Session.AccessToken, m.cookies.Secure(r)).String())
}

func (m *Machine) record(r *http.Request, out *Outcome) {
	m.metrics.observeOutcome(out.State)

	level := slog.LevelDebug
	if m.cfg.Debug {
		level = slog.LevelInfo
	}
	m.logger.Log(r.Context(), level, "session state resolved",
		logger.Component("authkit"),
		logger.Path(r.URL.Path),
		logger.Outcome(out.State.String()),
		slog.Bool("refreshed", out.Refreshed),
		slog.Bool("redirect", out.Redirect != ""),
	)
}

// requestURL reconstructs the absolute URL the client asked for.
func (m *Machine) requestURL(r *http.Request) string {
	scheme := "http"
	if m.cookies.Secure(r) {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return scheme + "://" + host + r.URL.RequestURI()
}
