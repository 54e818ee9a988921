// Package pathmatch compiles path templates into anchored, case-insensitive
// matchers used to decide which request paths may be served without a session.
//
// Supported syntax:
//
//	/users/:id          named segment
//	/users/:id?         optional segment
//	/docs/:path*        zero or more segments
//	/docs/:path+        one or more segments
//	/files/:id(\d+)     segment constrained by a pattern
//	/files/(\d+)        unnamed constrained segment
//	/public/*           any remainder
//	/blog{/:slug}?      optional group
//
// A trailing slash on the request path is ignored.
package pathmatch
