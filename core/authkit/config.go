package authkit

import (
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/authkit/core/cookie"
	"github.com/dmitrymomot/authkit/core/envelope"
)

// Config provides environment-based configuration for the session engine.
type Config struct {
	// RedirectURI is the absolute callback URL registered with the provider.
	RedirectURI string `env:"WORKOS_REDIRECT_URI"`

	Envelope envelope.Config
	Cookie   cookie.Config

	// MiddlewareAuth turns on path gating: every path not matched by
	// UnauthenticatedPaths requires a session.
	MiddlewareAuth       bool     `env:"WORKOS_MIDDLEWARE_AUTH" envDefault:"false"`
	UnauthenticatedPaths []string `env:"WORKOS_UNAUTHENTICATED_PATHS" envSeparator:","`
	// SignUpPaths select the sign-up screen hint instead of sign-in.
	SignUpPaths []string `env:"WORKOS_SIGN_UP_PATHS" envSeparator:","`

	// EagerAuth hands the access token to scripts through the fast cookie
	// on initial document requests.
	EagerAuth bool `env:"WORKOS_EAGER_AUTH" envDefault:"false"`
	// Debug logs every state transition at info level.
	Debug bool `env:"WORKOS_DEBUG" envDefault:"false"`
}

// DefaultConfig returns a Config with default cookie settings and no gating.
func DefaultConfig() Config {
	return Config{
		Cookie: cookie.DefaultConfig(),
	}
}

// validateRedirectURI checks the callback URL and returns it parsed.
func validateRedirectURI(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, &ConfigError{Field: "RedirectURI", Err: ErrMissingRedirectURI}
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ConfigError{Field: "RedirectURI", Err: ErrInvalidRedirectURI}
	}
	return u, nil
}

// unauthenticatedPatterns adds the callback path to the configured list so
// that gating never redirects the provider's callback back to sign-in.
func unauthenticatedPatterns(cfg Config, callback *url.URL) []string {
	patterns := slices.Clone(cfg.UnauthenticatedPaths)
	if !cfg.MiddlewareAuth || callback.Path == "" {
		return patterns
	}
	escaped := escapePattern(callback.Path)
	if !slices.Contains(patterns, escaped) {
		patterns = append(patterns, escaped)
	}
	return patterns
}

// escapePattern quotes path template metacharacters so a literal path
// matches only itself.
func escapePattern(path string) string {
	var b strings.Builder
	for _, r := range path {
		if strings.ContainsRune(`\:*?+(){}`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
