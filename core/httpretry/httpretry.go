package httpretry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/authkit/core/logger"
)

// CheckRetry is a retryablehttp.CheckRetry that resends a request only when
// it never reached the server (a failed dial) or the server declined it
// outright with 429 or 503. Other 5xx answers and connections dropped after
// the request was written are final: the refresh token may already be spent.
func CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return isDialError(err), nil
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true, nil
	}
	return false, nil
}

func isDialError(err error) bool {
	var op *net.OpError
	return errors.As(err, &op) && op.Op == "dial"
}

// LogHook returns a request hook that logs each retry attempt on log.
func LogHook(log *slog.Logger, component string) retryablehttp.RequestLogHook {
	return func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt == 0 || log == nil {
			return
		}
		log.DebugContext(req.Context(), "retrying request",
			logger.Component(component),
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
			logger.RetryCount(attempt),
		)
	}
}
