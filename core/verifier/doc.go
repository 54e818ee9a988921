// Package verifier validates access-token signatures against a remote JSON Web
// Key Set.
//
// Verify never returns an error: the session engine only needs to know whether
// a token is usable or must be refreshed, and key-fetch or signature details
// must not leak to end users. Diagnostics go to the debug log.
//
// Key sets are cached process-wide, keyed by client id, in an expiring LRU so
// that every request for the same client shares one set of fetched keys.
package verifier
