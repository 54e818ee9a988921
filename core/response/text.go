package response

import (
	"io"
	"net/http"
)

// Text writes a plain-text body with the given status.
func Text(w http.ResponseWriter, status int, body string) error {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.WriteString(w, body)
	return err
}
