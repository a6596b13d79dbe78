// internal/pkg/cookie/cookie.go
package cookie

import (
	"net/http"

	"vantage-console/internal/pkg/token"
)

// SessionName is the fixed session cookie name.
const SessionName = "vg.session"

// SessionMaxAge matches the token lifetime (seconds).
var SessionMaxAge = int(token.DefaultTTL.Seconds())

// SetSession attaches the signed token to the response. The cookie is
// HTTP-only, SameSite=Lax, path "/", and Secure when running in production.
func SetSession(w http.ResponseWriter, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionName,
		Value:    value,
		MaxAge:   SessionMaxAge,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession logs the client out by overwriting the cookie with an empty
// value and an immediate expiry.
func ClearSession(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSession reads the raw token from the request; empty string when absent.
// This is the single canonical accessor for the session cookie.
func GetSession(r *http.Request) string {
	c, err := r.Cookie(SessionName)
	if err != nil {
		return ""
	}
	return c.Value
}
