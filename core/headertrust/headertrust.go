package headertrust

import (
	"net/http"
	"slices"
	"strings"
)

// Internal request headers. They only ever originate from the session engine
// and are never exposed to the browser.
const (
	HeaderMiddleware  = "X-Workos-Middleware"
	HeaderSession     = "X-Workos-Session"
	HeaderURL         = "X-Url"
	HeaderRedirectURI = "X-Redirect-Uri"
	HeaderSignUpPaths = "X-Sign-Up-Paths"
)

// ReservedPrefix marks every header name owned by the session engine.
const ReservedPrefix = "X-Workos-"

var reservedRequest = []string{
	HeaderMiddleware,
	HeaderSession,
	HeaderURL,
	HeaderRedirectURI,
	HeaderSignUpPaths,
}

// Browser-visible response headers the engine may emit.
var allowedResponse = []string{
	"Set-Cookie",
	"Cache-Control",
	"Vary",
	"Link",
	"Www-Authenticate",
	"X-Middleware-Cache",
}

// Result carries the two halves of a partition.
type Result struct {
	// Request is forwarded to the downstream handler only.
	Request http.Header
	// Response is echoed to the browser.
	Response http.Header
}

// IsReserved reports whether name is an internal request header.
func IsReserved(name string) bool {
	name = http.CanonicalHeaderKey(name)
	return slices.Contains(reservedRequest, name) || strings.HasPrefix(name, ReservedPrefix)
}

// IsAllowedResponse reports whether name may be echoed to the browser.
func IsAllowedResponse(name string) bool {
	return slices.Contains(allowedResponse, http.CanonicalHeaderKey(name))
}

// Partition splits internally produced headers into the downstream request
// set and the browser response set.
//
// Reserved names arriving on the original request are stripped, then the
// internal values for those names are applied, so client input can never
// spoof them. Only allow-listed internal headers reach the response; a
// Location header is never copied because redirect targets are computed and
// validated separately.
func Partition(original, internal http.Header) Result {
	req := make(http.Header, len(original))
	for name, values := range original {
		if IsReserved(name) {
			continue
		}
		req[name] = slices.Clone(values)
	}

	resp := http.Header{}
	for name, values := range internal {
		switch {
		case IsReserved(name):
			req[http.CanonicalHeaderKey(name)] = slices.Clone(values)
		case http.CanonicalHeaderKey(name) == "Vary":
			MergeVary(resp, values...)
		case IsAllowedResponse(name):
			key := http.CanonicalHeaderKey(name)
			resp[key] = append(resp[key], values...)
		}
	}

	if len(resp.Values("Set-Cookie")) > 0 && resp.Get("Cache-Control") == "" {
		resp.Set("Cache-Control", "no-store")
	}

	return Result{Request: req, Response: resp}
}

// MergeVary adds values to h's Vary header, splitting comma-joined lists and
// dropping case-insensitive duplicates. The result is a single joined value.
func MergeVary(h http.Header, values ...string) {
	var merged []string
	seen := map[string]struct{}{}

	add := func(list string) {
		for _, v := range strings.Split(list, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, v)
		}
	}

	for _, v := range h.Values("Vary") {
		add(v)
	}
	for _, v := range values {
		add(v)
	}

	if len(merged) == 0 {
		return
	}
	h.Set("Vary", strings.Join(merged, ", "))
}

// Apply writes response headers onto dst, typically a ResponseWriter's
// header map. Multi-valued headers are appended, Vary is merged and every
// other header replaces what dst already holds.
func Apply(dst, response http.Header) {
	for name, values := range response {
		switch name {
		case "Set-Cookie", "Link", "Www-Authenticate":
			for _, v := range values {
				dst.Add(name, v)
			}
		case "Vary":
			MergeVary(dst, values...)
		default:
			dst[name] = slices.Clone(values)
		}
	}
}
