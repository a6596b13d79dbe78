// internal/routing/policy.go
package routing

import (
	"strings"

	"vantage-console/internal/domain/session"
)

// Public routes (case-insensitive). The activation page is public: a user
// setting a first password has no session yet.
var publicPaths = map[string]bool{
	"/":            true,
	"/login":       true,
	"/privacy":     true,
	"/terms":       true,
	"/setpassword": true,
	"/api/health":  true,
}

const (
	// authAPIPrefix is always public so login/logout/activation work with or
	// without a (possibly corrupt) cookie.
	authAPIPrefix = "/api/auth/"

	// elevatedPrefix is the single reserved prefix restricted to elevated roles.
	elevatedPrefix = "/admin"
)

// Prefixes served before the gate runs: static assets and framework
// internals are never classified or redirected.
var assetPrefixes = []string{"/assets/", "/static/", "/public/", "/_next/"}

// Landing destinations per capability split.
const (
	ElevatedHome = "/organizations"
	StandardHome = "/setup"
	LoginPath    = "/login"
)

// Classification is derived per request, never stored.
type Classification struct {
	Public       bool
	ElevatedOnly bool
}

// Normalize strips trailing slashes, case-folds, and treats an empty result
// as the root path.
func Normalize(path string) string {
	p := strings.TrimRight(path, "/")
	if p == "" {
		p = "/"
	}
	return strings.ToLower(p)
}

// SkipsGate reports whether the path is excluded from classification
// entirely (static assets, favicons, anything with a file extension).
func SkipsGate(path string) bool {
	p := Normalize(path)
	for _, prefix := range assetPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// e.g. /favicon.ico, /robots.txt
	return strings.Contains(lastSegment(p), ".")
}

// Classify maps a request path to its disposition, independent of any
// session state. Everything not explicitly public is protected by default.
func Classify(path string) Classification {
	p := Normalize(path)

	if publicPaths[p] || p == "/api/auth" || strings.HasPrefix(p, authAPIPrefix) {
		return Classification{Public: true}
	}

	return Classification{
		ElevatedOnly: p == elevatedPrefix || strings.HasPrefix(p, elevatedPrefix+"/"),
	}
}

// HomeFor maps a role to its default destination after authentication.
func HomeFor(role session.Role) string {
	if role.Elevated() {
		return ElevatedHome
	}
	return StandardHome
}

func lastSegment(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
