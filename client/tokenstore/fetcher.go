package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/authkit/core/httpretry"
)

// HTTPFetcher refreshes through the server's access-token endpoint. The
// session cookie travels in the client's cookie jar, which also receives the
// renewed cookie.
type HTTPFetcher struct {
	endpoint string
	http     *retryablehttp.Client
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithJar sets the cookie jar holding the session cookie.
func WithJar(jar http.CookieJar) FetcherOption {
	return func(f *HTTPFetcher) {
		f.http.HTTPClient.Jar = jar
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if hc != nil {
			f.http.HTTPClient = hc
		}
	}
}

// WithRetryMax sets the number of retries. Only requests the server never
// acted on are retried; see httpretry.CheckRetry.
func WithRetryMax(n int) FetcherOption {
	return func(f *HTTPFetcher) {
		if n >= 0 {
			f.http.RetryMax = n
		}
	}
}

// WithFetcherLogger sets the logger used for retry diagnostics.
func WithFetcherLogger(l *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.http.RequestLogHook = httpretry.LogHook(l, "tokenstore")
		}
	}
}

// NewHTTPFetcher creates a fetcher posting to endpoint.
func NewHTTPFetcher(endpoint string, opts ...FetcherOption) (*HTTPFetcher, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	f := &HTTPFetcher{
		endpoint: endpoint,
		http: &retryablehttp.Client{
			HTTPClient:   cleanhttp.DefaultPooledClient(),
			RetryWaitMin: 500 * time.Millisecond,
			RetryWaitMax: 5 * time.Second,
			RetryMax:     2,
			Backoff:      retryablehttp.DefaultBackoff,
			CheckRetry:   httpretry.CheckRetry,
			ErrorHandler: retryablehttp.PassthroughErrorHandler,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// FetchAccessToken implements Fetcher.
func (f *HTTPFetcher) FetchAccessToken(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("tokenstore: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tokenstore: refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	var body accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("tokenstore: decode response: %w", err)
	}
	if body.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return body.AccessToken, nil
}
