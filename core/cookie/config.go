package cookie

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for the session cookie.
type Config struct {
	Name     string `env:"WORKOS_COOKIE_NAME" envDefault:"wos-session"`
	Domain   string `env:"WORKOS_COOKIE_DOMAIN" envDefault:""`
	MaxAge   int    `env:"WORKOS_COOKIE_MAX_AGE" envDefault:"34560000"` // 400 days
	SameSite string `env:"WORKOS_COOKIE_SAMESITE" envDefault:"lax"`
	MaxSize  int    `env:"WORKOS_COOKIE_MAX_SIZE" envDefault:"4096"`
	// TrustProxy honours X-Forwarded-Proto when deciding the Secure attribute.
	TrustProxy bool `env:"WORKOS_TRUST_PROXY" envDefault:"false"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() Config {
	return Config{
		Name:     DefaultName,
		MaxAge:   DefaultMaxAge,
		SameSite: "lax",
		MaxSize:  MaxCookieSize,
	}
}

// parseSameSite maps the configured string onto http.SameSite, defaulting to Lax.
func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// NewFromConfig creates a Manager from configuration.
// Only non-zero config values override defaults to preserve secure settings.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := make([]Option, 0, 4)

	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge > 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	sameSite := parseSameSite(cfg.SameSite)
	configOpts = append(configOpts, WithSameSite(sameSite))
	if sameSite == http.SameSiteNoneMode {
		// Browsers reject SameSite=None without Secure.
		configOpts = append(configOpts, WithSecure(true))
	}

	// Append user-provided options to override config
	configOpts = append(configOpts, opts...)

	return NewWithOptions(cfg.Name, configOpts, WithMaxSize(cfg.MaxSize), WithTrustProxy(cfg.TrustProxy))
}
