package authkit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/core/authkit"
	"github.com/dmitrymomot/authkit/core/envelope"
	"github.com/dmitrymomot/authkit/core/session"
	"github.com/dmitrymomot/authkit/core/workos"
)

const (
	testPassword    = "a-very-long-cookie-password-of-at-least-32-chars"
	testRedirectURI = "https://app.example.com/callback"
	testAuthURL     = "https://auth.example.com/authorize?client_id=client_123"
)

type mockClient struct {
	mock.Mock
}

func (c *mockClient) AuthorizationURL(opts workos.AuthorizationURLOptions) (string, error) {
	args := c.Called(opts)
	return args.String(0), args.Error(1)
}

func (c *mockClient) AuthenticateWithRefreshToken(_ context.Context, opts workos.RefreshTokenOptions) (*workos.AuthenticationResponse, error) {
	args := c.Called(opts)
	resp, _ := args.Get(0).(*workos.AuthenticationResponse)
	return resp, args.Error(1)
}

func (c *mockClient) AuthenticateWithCode(_ context.Context, opts workos.CodeOptions) (*workos.AuthenticationResponse, error) {
	args := c.Called(opts)
	resp, _ := args.Get(0).(*workos.AuthenticationResponse)
	return resp, args.Error(1)
}

func (c *mockClient) LogoutURL(sessionID, returnTo string) (string, error) {
	args := c.Called(sessionID, returnTo)
	return args.String(0), args.Error(1)
}

func (c *mockClient) JWKSURL() string  { return "https://api.example.com/sso/jwks/client_123" }
func (c *mockClient) ClientID() string { return "client_123" }

// signToken builds a claims-bearing token. Signature checks are stubbed in
// these tests, so any key works.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return token
}

func testConfig() authkit.Config {
	cfg := authkit.DefaultConfig()
	cfg.RedirectURI = testRedirectURI
	cfg.Envelope.Password = testPassword
	return cfg
}

func testCodec(t *testing.T) *envelope.Codec {
	t.Helper()
	codec, err := envelope.New([]string{testPassword})
	require.NoError(t, err)
	return codec
}

func sealSession(t *testing.T, sess *session.Session) string {
	t.Helper()
	sealed, err := testCodec(t).Seal(sess, 0)
	require.NoError(t, err)
	return sealed
}

func unsealSession(t *testing.T, sealed string) *session.Session {
	t.Helper()
	var sess session.Session
	require.NoError(t, testCodec(t).Unseal(sealed, &sess))
	return &sess
}

func newSession(t *testing.T, claims jwt.MapClaims) *session.Session {
	t.Helper()
	return &session.Session{
		AccessToken:  signToken(t, claims),
		RefreshToken: "refresh_old",
		User:         session.User{ID: "user_01", Email: "ada@example.com"},
	}
}

// verifyAll and verifyNone stub the key-set verifier.
var (
	verifyAll  = authkit.WithVerifier(authkit.VerifierFunc(func(context.Context, string) bool { return true }))
	verifyNone = authkit.WithVerifier(authkit.VerifierFunc(func(context.Context, string) bool { return false }))
)

func newMachine(t *testing.T, cfg authkit.Config, client workos.Client, opts ...authkit.Option) *authkit.Machine {
	t.Helper()
	m, err := authkit.New(cfg, client, opts...)
	require.NoError(t, err)
	return m
}

func requestWithCookie(method, target, sealed string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	if sealed != "" {
		r.AddCookie(&http.Cookie{Name: "wos-session", Value: sealed})
	}
	return r
}

// captureHandler records the request the middleware forwarded.
type captureHandler struct {
	called bool
	req    *http.Request
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.req = r
	w.WriteHeader(http.StatusOK)
}
