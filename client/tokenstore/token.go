package tokenstore

import (
	"time"

	"github.com/dmitrymomot/authkit/core/session"
)

const (
	// DefaultBuffer is how long before expiry a token counts as expiring.
	DefaultBuffer = 60 * time.Second
	// ShortLivedBuffer replaces DefaultBuffer for tokens living ShortLivedLifetime or less,
	// otherwise such tokens would be refreshed continuously.
	ShortLivedBuffer = 30 * time.Second
	// ShortLivedLifetime is the exp-iat threshold for ShortLivedBuffer.
	ShortLivedLifetime = 5 * time.Minute

	// MinRefreshDelay and MaxRefreshDelay bound background scheduling.
	MinRefreshDelay = 15 * time.Second
	MaxRefreshDelay = 24 * time.Hour
	// RetryDelay is the wait after a failed background refresh.
	RetryDelay = 5 * time.Minute
)

// TokenInfo describes a claims-bearing access token.
type TokenInfo struct {
	Payload         session.Claims
	ExpiresAt       time.Time
	IsExpiring      bool
	TimeUntilExpiry time.Duration
	// Buffer is the expiry buffer chosen for this token.
	Buffer time.Duration
}

// parseToken inspects token at now. It returns nil for opaque tokens and
// tokens without a numeric exp claim. A missing iat counts as now.
func parseToken(token string, now time.Time) *TokenInfo {
	claims, err := session.DecodeClaims(token)
	if err != nil {
		return nil
	}
	exp, ok := claims.Expiry()
	if !ok {
		return nil
	}
	iat, ok := claims.IssuedAtTime()
	if !ok {
		iat = now
	}

	buffer := DefaultBuffer
	if exp.Sub(iat) <= ShortLivedLifetime {
		buffer = ShortLivedBuffer
	}

	tte := exp.Sub(now)
	return &TokenInfo{
		Payload:         claims,
		ExpiresAt:       exp,
		IsExpiring:      tte <= buffer,
		TimeUntilExpiry: tte,
		Buffer:          buffer,
	}
}

// refreshDelay is how long to wait before refreshing the token described by info.
func refreshDelay(info *TokenInfo) time.Duration {
	if info.TimeUntilExpiry <= info.Buffer {
		return 0
	}
	return min(max(info.TimeUntilExpiry-info.Buffer, MinRefreshDelay), MaxRefreshDelay)
}
