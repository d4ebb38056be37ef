package authapi

import (
	"net/http"
	"strings"
)

// setAccessTokenCookie delivers the issued token as an HTTP-only cookie.
//
// No Expires/Max-Age is set: the token embeds its own expiry and the wire
// contract has always used a browser-session cookie.
func (h *Handler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	if h == nil || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.AccessCookieName,
		Value:    token,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.CookieSameSite,
	})
}

// accessTokenFromCookie returns the raw token from the access cookie, or ""
// when the cookie is absent or blank.
func (h *Handler) accessTokenFromCookie(r *http.Request) string {
	if h == nil || r == nil {
		return ""
	}
	c, err := r.Cookie(h.cfg.AccessCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
