// Package response provides small net/http response helpers: JSON bodies,
// structured JSON errors and HTMX-aware redirects.
//
//	if err := response.JSON(w, http.StatusOK, payload); err != nil {
//		log.Error("write response", logger.Error(err))
//	}
//
//	response.Error(w, response.ErrUnauthorized)
//	response.RedirectTemporary(w, r, signInURL)
package response
