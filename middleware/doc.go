// Package middleware provides net/http middleware for the edge server:
// request IDs, structured request logging and security response headers.
//
// Each middleware has a default constructor and a WithConfig variant, and
// every config can skip requests:
//
//	handler := middleware.RequestID()(
//		middleware.LoggingWithConfig(middleware.LoggingConfig{
//			Logger:               log,
//			LogHeaders:           true,
//			SlowRequestThreshold: 2 * time.Second,
//			Skip: func(r *http.Request) bool {
//				return r.URL.Path == "/health" || r.URL.Path == "/metrics"
//			},
//		})(mux),
//	)
//
// Request IDs are UUID v4 by default and can be read back with
// GetRequestID(r.Context()). Cookies, credentials and the reserved session
// header are redacted when headers are logged.
package middleware
