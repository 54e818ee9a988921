package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the access-token claims read by the session engine.
type Claims struct {
	jwt.RegisteredClaims
	SessionID      string   `json:"sid"`
	OrganizationID string   `json:"org_id,omitempty"`
	Role           string   `json:"role,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	Entitlements   []string `json:"entitlements,omitempty"`
	FeatureFlags   []string `json:"feature_flags,omitempty"`
}

var unverifiedParser = jwt.NewParser()

// DecodeClaims reads the claims of a compact JWS without checking its signature
// or temporal validity. Returns ErrMalformedToken when token is not a
// claims-bearing token.
func DecodeClaims(token string) (Claims, error) {
	var c Claims
	if token == "" {
		return c, ErrMalformedToken
	}
	if _, _, err := unverifiedParser.ParseUnverified(token, &c); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return c, nil
}

// Expiry returns the exp claim and whether it was present.
func (c Claims) Expiry() (time.Time, bool) {
	if c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// IssuedAtTime returns the iat claim and whether it was present.
func (c Claims) IssuedAtTime() (time.Time, bool) {
	if c.IssuedAt == nil {
		return time.Time{}, false
	}
	return c.IssuedAt.Time, true
}
