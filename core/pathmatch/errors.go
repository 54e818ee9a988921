package pathmatch

import "fmt"

// RouteConfigError reports a path template that cannot be compiled.
// It is a configuration error and should surface at startup.
type RouteConfigError struct {
	Pattern string
	Cause   error
}

// Error implements the error interface.
func (e *RouteConfigError) Error() string {
	return fmt.Sprintf("error parsing routes for middleware auth: pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying parse error.
func (e *RouteConfigError) Unwrap() error {
	return e.Cause
}
