package session

import (
	"encoding/json"
)

// User is the identity issued alongside a session by the identity provider.
type User struct {
	Object            string `json:"object,omitempty"`
	ID                string `json:"id"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"emailVerified"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	ExternalID        string `json:"externalId,omitempty"`
	LastSignInAt      string `json:"lastSignInAt,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// Impersonator describes an administrator acting as the session's user.
type Impersonator struct {
	Email  string `json:"email"`
	Reason string `json:"reason,omitempty"`
}

// Session is the credential record sealed into the session cookie.
// AccessToken and RefreshToken are always issued together; a record holding
// only one of them is discarded by Validate.
type Session struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         User            `json:"user"`
	Impersonator *Impersonator   `json:"impersonator,omitempty"`
	OAuthTokens  json.RawMessage `json:"oauthTokens,omitempty"`
}

// Validate rejects partially populated records.
func (s *Session) Validate() error {
	if s == nil || s.AccessToken == "" || s.RefreshToken == "" {
		return ErrIncomplete
	}
	return nil
}

// Claims decodes the access token's claims without verifying its signature.
// The result is only suitable for UX decisions such as choosing an
// organization to refresh into; access is granted by the verifier alone.
func (s *Session) Claims() (Claims, error) {
	if s == nil {
		return Claims{}, ErrIncomplete
	}
	return DecodeClaims(s.AccessToken)
}
