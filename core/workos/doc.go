// Package workos is a small client for the identity provider's user-management
// API: authorization and logout URL construction, the authorization-code and
// refresh-token exchanges, and the key-set location used to verify access
// tokens.
//
// Requests go through hashicorp/go-retryablehttp on top of a pooled
// go-cleanhttp client, so transient 5xx and connection failures are retried
// with backoff while 4xx responses surface immediately as *APIError.
package workos
