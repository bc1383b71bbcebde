package auth

import (
	"net/http"
	"strings"
)

const securePrefix = "__Secure-"

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header, or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	value := r.Header.Get("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequestToken prefers the Authorization header and falls back to the
// session cookie, then its __Secure- variant. An empty cookieName disables
// the fallback.
func RequestToken(r *http.Request, cookieName string) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	if cookieName == "" {
		return ""
	}
	for _, name := range []string{cookieName, securePrefix + cookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}
