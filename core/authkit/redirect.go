package authkit

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/authkit/core/pathmatch"
	"github.com/dmitrymomot/authkit/core/workos"
)

// returnState is carried through the provider in the OAuth state parameter.
type returnState struct {
	ReturnPathname string `json:"returnPathname"`
}

// EncodeReturnState packs the path to return to after sign-in.
func EncodeReturnState(returnPathname string) string {
	data, _ := json.Marshal(returnState{ReturnPathname: returnPathname})
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeReturnState unpacks a state parameter into a same-origin path.
// Anything undecodable or pointing off-site yields "/".
func DecodeReturnState(state string) string {
	if state == "" {
		return "/"
	}

	var raw []byte
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(state); err == nil {
			raw = b
			break
		}
	}
	if raw == nil {
		return "/"
	}

	var st returnState
	if err := json.Unmarshal(raw, &st); err != nil {
		return "/"
	}
	if !isLocalPath(st.ReturnPathname) {
		return "/"
	}
	return st.ReturnPathname
}

// AuthorizationURL builds the provider sign-in URL for r that returns the
// user to returnPathname. The screen hint follows the sign-up paths.
func (m *Machine) AuthorizationURL(r *http.Request, returnPathname string) (string, error) {
	return m.client.AuthorizationURL(workos.AuthorizationURLOptions{
		RedirectURI: m.cfg.RedirectURI,
		State:       EncodeReturnState(returnPathname),
		ScreenHint:  pathmatch.ScreenHint(m.signUp, r.URL.Path),
	})
}

// SignInURL builds a sign-in URL outside a request, for links on public pages.
func (m *Machine) SignInURL(returnPathname string) (string, error) {
	return m.client.AuthorizationURL(workos.AuthorizationURLOptions{
		RedirectURI: m.cfg.RedirectURI,
		State:       EncodeReturnState(returnPathname),
		ScreenHint:  pathmatch.ScreenHintSignIn,
	})
}

// SignUpURL is SignInURL with the sign-up screen hint.
func (m *Machine) SignUpURL(returnPathname string) (string, error) {
	return m.client.AuthorizationURL(workos.AuthorizationURLOptions{
		RedirectURI: m.cfg.RedirectURI,
		State:       EncodeReturnState(returnPathname),
		ScreenHint:  pathmatch.ScreenHintSignUp,
	})
}

// rawRedirect is the protocol-level fallback used when no helper is configured.
func rawRedirect(w http.ResponseWriter, _ *http.Request, target string) {
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusTemporaryRedirect)
}

// validateRedirectTarget accepts absolute http(s) URLs and local paths.
func validateRedirectTarget(target string) error {
	if target == "" {
		return ErrInvalidRedirectTarget
	}
	u, err := url.Parse(target)
	if err != nil {
		return ErrInvalidRedirectTarget
	}
	if u.IsAbs() {
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidRedirectTarget
		}
		return nil
	}
	if !isLocalPath(target) {
		return ErrInvalidRedirectTarget
	}
	return nil
}

// isLocalPath reports whether p is a path on this origin.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, `/\`)
}
