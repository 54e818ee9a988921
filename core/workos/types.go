package workos

import (
	"context"
	"encoding/json"

	"github.com/dmitrymomot/authkit/core/session"
)

// Client is the identity provider as seen by the session engine.
type Client interface {
	// AuthorizationURL builds the hosted sign-in URL.
	AuthorizationURL(opts AuthorizationURLOptions) (string, error)
	// AuthenticateWithRefreshToken exchanges a refresh token for a new token pair.
	AuthenticateWithRefreshToken(ctx context.Context, opts RefreshTokenOptions) (*AuthenticationResponse, error)
	// AuthenticateWithCode exchanges an authorization code for a token pair.
	AuthenticateWithCode(ctx context.Context, opts CodeOptions) (*AuthenticationResponse, error)
	// LogoutURL builds the URL that ends the provider-side session.
	LogoutURL(sessionID, returnTo string) (string, error)
	// JWKSURL is where the provider publishes access-token signing keys.
	JWKSURL() string
	// ClientID identifies this application to the provider.
	ClientID() string
}

// AuthorizationURLOptions parameterize AuthorizationURL.
type AuthorizationURLOptions struct {
	RedirectURI    string
	State          string
	ScreenHint     string
	OrganizationID string
	LoginHint      string
	DomainHint     string
	Prompt         string
}

// RefreshTokenOptions parameterize AuthenticateWithRefreshToken.
type RefreshTokenOptions struct {
	RefreshToken   string
	OrganizationID string
	IPAddress      string
	UserAgent      string
}

// CodeOptions parameterize AuthenticateWithCode.
type CodeOptions struct {
	Code         string
	CodeVerifier string
	IPAddress    string
	UserAgent    string
}

// AuthenticationResponse is the token pair and identity returned by both exchanges.
type AuthenticationResponse struct {
	User                 session.User          `json:"user"`
	OrganizationID       string                `json:"organization_id,omitempty"`
	AccessToken          string                `json:"access_token"`
	RefreshToken         string                `json:"refresh_token"`
	Impersonator         *session.Impersonator `json:"impersonator,omitempty"`
	AuthenticationMethod string                `json:"authentication_method,omitempty"`
	OAuthTokens          json.RawMessage       `json:"oauth_tokens,omitempty"`
}

// Session converts the response into the sealed session record.
func (r *AuthenticationResponse) Session() *session.Session {
	return &session.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         r.User,
		Impersonator: r.Impersonator,
		OAuthTokens:  r.OAuthTokens,
	}
}

// apiUser mirrors the provider's snake_case user payload.
type apiUser struct {
	Object            string `json:"object"`
	ID                string `json:"id"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	ExternalID        string `json:"external_id"`
	LastSignInAt      string `json:"last_sign_in_at"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type apiAuthResponse struct {
	User                 apiUser               `json:"user"`
	OrganizationID       string                `json:"organization_id"`
	AccessToken          string                `json:"access_token"`
	RefreshToken         string                `json:"refresh_token"`
	Impersonator         *session.Impersonator `json:"impersonator"`
	AuthenticationMethod string                `json:"authentication_method"`
	OAuthTokens          json.RawMessage       `json:"oauth_tokens"`
}

func (a apiAuthResponse) toResponse() *AuthenticationResponse {
	return &AuthenticationResponse{
		User: session.User{
			Object:            a.User.Object,
			ID:                a.User.ID,
			Email:             a.User.Email,
			EmailVerified:     a.User.EmailVerified,
			FirstName:         a.User.FirstName,
			LastName:          a.User.LastName,
			ProfilePictureURL: a.User.ProfilePictureURL,
			ExternalID:        a.User.ExternalID,
			LastSignInAt:      a.User.LastSignInAt,
			CreatedAt:         a.User.CreatedAt,
			UpdatedAt:         a.User.UpdatedAt,
		},
		OrganizationID:       a.OrganizationID,
		AccessToken:          a.AccessToken,
		RefreshToken:         a.RefreshToken,
		Impersonator:         a.Impersonator,
		AuthenticationMethod: a.AuthenticationMethod,
		OAuthTokens:          a.OAuthTokens,
	}
}
