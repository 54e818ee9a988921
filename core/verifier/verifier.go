package verifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	capjwt "github.com/hashicorp/cap/jwt"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrymomot/authkit/core/logger"
)

const (
	// DefaultCacheSize bounds how many key sets the shared cache holds.
	DefaultCacheSize = 32
	// DefaultCacheTTL forces a key set to be rebuilt, and its keys refetched, periodically.
	DefaultCacheTTL = time.Hour
)

// KeySetCache shares remote key-set validators between verifiers of the same
// client. The key set itself fetches lazily and refetches on unknown key ids.
type KeySetCache struct {
	lru *expirable.LRU[string, *capjwt.Validator]
}

// NewKeySetCache creates a cache holding at most size key sets for ttl each.
func NewKeySetCache(size int, ttl time.Duration) *KeySetCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &KeySetCache{lru: expirable.NewLRU[string, *capjwt.Validator](size, nil, ttl)}
}

// Purge drops every cached key set.
func (c *KeySetCache) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached key sets.
func (c *KeySetCache) Len() int {
	return c.lru.Len()
}

// sharedCache is the process-wide key-set cache.
var sharedCache = NewKeySetCache(DefaultCacheSize, DefaultCacheTTL)

// SharedCache returns the process-wide key-set cache.
func SharedCache() *KeySetCache {
	return sharedCache
}

// Verifier checks access-token signatures against the identity provider's
// published key set and the token's temporal claims.
type Verifier struct {
	clientID   string
	jwksURL    string
	caPEM      string
	algorithms []capjwt.Alg
	leeway     time.Duration
	now        func() time.Time
	cache      *KeySetCache
	logger     *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithCache replaces the process-wide key-set cache.
func WithCache(c *KeySetCache) Option {
	return func(v *Verifier) {
		if c != nil {
			v.cache = c
		}
	}
}

// WithCA sets a PEM-encoded CA bundle used when fetching the key set.
func WithCA(pem string) Option {
	return func(v *Verifier) {
		v.caPEM = pem
	}
}

// WithAlgorithms restricts accepted signing algorithms (default RS256).
func WithAlgorithms(algs ...capjwt.Alg) Option {
	return func(v *Verifier) {
		if len(algs) > 0 {
			v.algorithms = algs
		}
	}
}

// WithLeeway tolerates clock skew when checking exp, nbf and iat. No leeway by default.
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) {
		v.leeway = d
	}
}

// WithClock overrides the time source for temporal checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// WithLogger sets the logger for verification diagnostics (debug level only).
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a verifier for clientID whose keys are published at jwksURL.
func New(clientID, jwksURL string, opts ...Option) (*Verifier, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	if jwksURL == "" {
		return nil, ErrMissingJWKSURL
	}

	v := &Verifier{
		clientID:   clientID,
		jwksURL:    jwksURL,
		algorithms: []capjwt.Alg{capjwt.RS256},
		now:        time.Now,
		cache:      sharedCache,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Verify reports whether token is authentic and currently valid. Every failure,
// including an unreachable key set, collapses to false.
func (v *Verifier) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	validator, err := v.validator(ctx)
	if err != nil {
		v.logger.DebugContext(ctx, "key set unavailable",
			logger.Component("verifier"),
			logger.Error(err),
		)
		return false
	}

	_, err = validator.Validate(ctx, token, capjwt.Expected{
		SigningAlgorithms: v.algorithms,
		NotBeforeLeeway:   leeway(v.leeway),
		ExpirationLeeway:  leeway(v.leeway),
		ClockSkewLeeway:   leeway(v.leeway),
		Now:               v.now,
	})
	if err != nil {
		v.logger.DebugContext(ctx, "token rejected",
			logger.Component("verifier"),
			logger.Error(err),
		)
		return false
	}

	return true
}

// leeway maps an unset duration onto cap's "no leeway" value; a zero
// duration there would mean its built-in default.
func leeway(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

// validator returns the cached validator for this client, building it on a miss.
func (v *Verifier) validator(ctx context.Context) (*capjwt.Validator, error) {
	key := v.clientID + "|" + v.jwksURL
	if val, ok := v.cache.lru.Get(key); ok {
		return val, nil
	}

	// The key set keeps its context for every later fetch, so it must not
	// inherit the request's cancellation.
	keySet, err := capjwt.NewJSONWebKeySet(context.WithoutCancel(ctx), v.jwksURL, v.caPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySet, err)
	}

	val, err := capjwt.NewValidator(keySet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySet, err)
	}

	v.cache.lru.Add(key, val)
	return val, nil
}
