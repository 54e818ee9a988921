package workos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/authkit/core/httpretry"
)

// HTTPClient talks to the provider's user-management API.
// Safe for concurrent use.
type HTTPClient struct {
	clientID string
	apiKey   string
	baseURL  *url.URL
	http     *retryablehttp.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL points the client at a different API origin, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) {
		if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
			c.baseURL = parsed
		}
	}
}

// WithHTTPClient replaces the underlying pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http.HTTPClient = hc
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.http.RequestLogHook = httpretry.LogHook(l, "workos")
		}
	}
}

// WithRetryMax sets the number of retries. Only requests the server never
// acted on are retried; see httpretry.CheckRetry.
func WithRetryMax(n int) Option {
	return func(c *HTTPClient) {
		if n >= 0 {
			c.http.RetryMax = n
		}
	}
}

// New creates a provider client from configuration.
func New(cfg Config, opts ...Option) (*HTTPClient, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	scheme := "https"
	if !cfg.APIHTTPS {
		scheme = "http"
	}
	host := cfg.APIHostname
	if host == "" {
		host = DefaultConfig().APIHostname
	}
	if cfg.APIPort > 0 {
		host += ":" + strconv.Itoa(cfg.APIPort)
	}

	hc := cleanhttp.DefaultPooledClient()
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}

	c := &HTTPClient{
		clientID: cfg.ClientID,
		apiKey:   cfg.APIKey,
		baseURL:  &url.URL{Scheme: scheme, Host: host},
		http: &retryablehttp.Client{
			HTTPClient:   hc,
			RetryWaitMin: cfg.RetryWaitMin,
			RetryWaitMax: cfg.RetryWaitMax,
			RetryMax:     cfg.RetryMax,
			Backoff:      retryablehttp.DefaultBackoff,
			CheckRetry:   httpretry.CheckRetry,
			ErrorHandler: retryablehttp.PassthroughErrorHandler,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ClientID returns the configured client id.
func (c *HTTPClient) ClientID() string {
	return c.clientID
}

// JWKSURL returns the key-set URL for this client.
func (c *HTTPClient) JWKSURL() string {
	return c.endpoint("/sso/jwks/"+c.clientID, nil)
}

// AuthorizationURL builds the hosted sign-in URL.
func (c *HTTPClient) AuthorizationURL(opts AuthorizationURLOptions) (string, error) {
	if opts.RedirectURI == "" {
		return "", ErrMissingRedirectURI
	}

	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", opts.RedirectURI)
	q.Set("response_type", "code")
	q.Set("provider", "authkit")
	setIf(q, "state", opts.State)
	setIf(q, "screen_hint", opts.ScreenHint)
	setIf(q, "organization_id", opts.OrganizationID)
	setIf(q, "login_hint", opts.LoginHint)
	setIf(q, "domain_hint", opts.DomainHint)
	setIf(q, "prompt", opts.Prompt)

	return c.endpoint("/user_management/authorize", q), nil
}

// LogoutURL builds the URL that ends the provider-side session.
func (c *HTTPClient) LogoutURL(sessionID, returnTo string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingSessionID
	}

	q := url.Values{}
	q.Set("session_id", sessionID)
	setIf(q, "return_to", returnTo)

	return c.endpoint("/user_management/sessions/logout", q), nil
}

// AuthenticateWithRefreshToken exchanges a refresh token for a new token pair.
func (c *HTTPClient) AuthenticateWithRefreshToken(ctx context.Context, opts RefreshTokenOptions) (*AuthenticationResponse, error) {
	body := map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.apiKey,
		"grant_type":    "refresh_token",
		"refresh_token": opts.RefreshToken,
	}
	setMap(body, "organization_id", opts.OrganizationID)
	setMap(body, "ip_address", opts.IPAddress)
	setMap(body, "user_agent", opts.UserAgent)

	return c.authenticate(ctx, body)
}

// AuthenticateWithCode exchanges an authorization code for a token pair.
func (c *HTTPClient) AuthenticateWithCode(ctx context.Context, opts CodeOptions) (*AuthenticationResponse, error) {
	body := map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.apiKey,
		"grant_type":    "authorization_code",
		"code":          opts.Code,
	}
	setMap(body, "code_verifier", opts.CodeVerifier)
	setMap(body, "ip_address", opts.IPAddress)
	setMap(body, "user_agent", opts.UserAgent)

	return c.authenticate(ctx, body)
}

func (c *HTTPClient) authenticate(ctx context.Context, body map[string]string) (*AuthenticationResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("workos: marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/user_management/authenticate", nil), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("workos: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workos: authenticate: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("workos: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return nil, apiErr
	}

	var out apiAuthResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("workos: decode response: %w", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return nil, ErrIncompleteResponse
	}

	return out.toResponse(), nil
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setMap(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
