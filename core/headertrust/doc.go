// Package headertrust enforces the trust boundary for headers exchanged
// between the session engine, downstream handlers and the browser.
//
// Internal headers (session carrier, middleware marker, current URL, redirect
// URI override, sign-up paths) travel to downstream handlers only. Any of them
// sent by a client is stripped before the engine's own values are applied.
// Headers headed for the browser pass through a small allow-list, and a
// session-bearing response always gets Cache-Control: no-store unless the
// engine chose a cache policy itself.
package headertrust
