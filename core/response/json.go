package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as an application/json body with the given status.
// A zero status means 200, or 204 when v is nil.
func JSON(w http.ResponseWriter, status int, v any) error {
	if status == 0 {
		if v == nil {
			status = http.StatusNoContent
		} else {
			status = http.StatusOK
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	switch status {
	case http.StatusNoContent, http.StatusNotModified:
		return nil
	}

	return json.NewEncoder(w).Encode(v)
}
