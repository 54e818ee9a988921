// Package session defines the credential record carried by the session cookie
// and helpers to read access-token claims.
//
// Claims are decoded without signature verification. Use them for display and
// routing hints only; authorization decisions belong to the verifier package.
package session
