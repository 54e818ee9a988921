package logger

import (
	"log/slog"
	"time"
)

// optional returns an attribute for a string that may be absent. Absent
// values produce the empty Attr, which handlers drop.
func optional(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(key, value)
}

// Error wraps err under "error". A nil err yields the empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration records how long an operation took.
func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }

// RetryCount records which retry attempt is being made.
func RetryCount(n int) slog.Attr { return slog.Int("retry_count", n) }

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr { return slog.String("component", name) }

// Event names what happened, e.g. "request" or "response".
func Event(name string) slog.Attr { return slog.String("event", name) }

// Request attributes.

func Method(method string) slog.Attr   { return slog.String("method", method) }
func Path(path string) slog.Attr       { return slog.String("path", path) }
func StatusCode(code int) slog.Attr    { return slog.Int("status_code", code) }
func RemoteAddr(addr string) slog.Attr { return slog.String("remote_addr", addr) }
func BytesOut(n int64) slog.Attr       { return slog.Int64("bytes_out", n) }
func Query(q string) slog.Attr         { return optional("query", q) }
func UserAgent(ua string) slog.Attr    { return optional("user_agent", ua) }
func RequestID(id string) slog.Attr    { return optional("request_id", id) }

// Session attributes. Empty ids are omitted so anonymous requests log cleanly.

func SessionID(id string) slog.Attr      { return optional("session_id", id) }
func UserID(id string) slog.Attr         { return optional("user_id", id) }
func OrganizationID(id string) slog.Attr { return optional("organization_id", id) }

// Outcome records how a session transition ended, e.g. "refreshed".
func Outcome(o string) slog.Attr { return slog.String("outcome", o) }
