// Package httpretry holds the retry policy shared by clients that post
// single-use refresh tokens. A request is resent only when the server cannot
// have acted on it.
package httpretry
