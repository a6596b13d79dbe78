// internal/middleware/session_gate.go
package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vantage-console/internal/domain/directory"
	"vantage-console/internal/domain/session"
	"vantage-console/internal/pkg/cookie"
	"vantage-console/internal/pkg/token"
	"vantage-console/internal/routing"
)

const sessionContextKey = "session"

// SessionGate is the request-interception middleware: it verifies the
// session cookie, enforces route policy, and transparently re-issues the
// cookie when the directory's authoritative role has drifted from the role
// embedded in the token.
type SessionGate struct {
	codec        *token.Codec
	dir          directory.Directory
	secureCookie bool
	logger       *zap.Logger
}

func NewSessionGate(codec *token.Codec, dir directory.Directory, secureCookie bool, logger *zap.Logger) *SessionGate {
	return &SessionGate{
		codec:        codec,
		dir:          dir,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Handle gates every routed path. Terminal outcomes: pass-through, redirect
// to login with the intended destination preserved, redirect to the
// protected landing page (elevated-only downgrade), or pass-through with a
// refreshed cookie.
func (m *SessionGate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPath := c.Request.URL.Path
		if routing.SkipsGate(rawPath) {
			c.Next()
			return
		}

		path := routing.Normalize(rawPath)
		cls := routing.Classify(path)
		raw := cookie.GetSession(c.Request)

		if cls.Public {
			// A logged-in user hitting bare "/" goes straight to their home.
			// Any verification failure here is swallowed: public pages must
			// render even with a corrupt cookie.
			if path == "/" && raw != "" {
				if sess, err := m.codec.Verify(raw); err == nil {
					m.redirect(c, routing.HomeFor(sess.Role))
					return
				}
			}
			c.Next()
			return
		}

		// Protected beyond this point.
		if raw == "" {
			m.redirectToLogin(c)
			return
		}

		sess, err := m.codec.Verify(raw)
		if err != nil {
			// Bad signature, malformed payload or expired: identical
			// treatment to a missing token.
			m.redirectToLogin(c)
			return
		}

		effectiveRole := m.refreshIfStale(c, sess)

		if cls.ElevatedOnly && !effectiveRole.Elevated() {
			m.redirect(c, routing.ElevatedHome)
			return
		}

		// The current request proceeds under the token's session; a
		// corrected role takes effect from the next request's cookie.
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// refreshIfStale re-checks the authoritative role on the hot path. A failed
// lookup degrades to the token's cached role: availability over strict
// freshness. On drift it mints a replacement token so every subsequent
// request carries the corrected role, bounding privilege-change propagation
// to one extra round-trip.
func (m *SessionGate) refreshIfStale(c *gin.Context, sess *session.Session) session.Role {
	rec, err := m.dir.FindUserByID(c.Request.Context(), sess.SubjectID)
	if err != nil {
		m.logger.Warn("directory lookup failed, keeping token role",
			zap.String("subject", sess.SubjectID),
			zap.Error(err),
		)
		return sess.Role
	}
	if rec == nil {
		return sess.Role
	}

	latest := session.ParseRole(rec.Role)
	if latest == sess.Role {
		return sess.Role
	}

	refreshed, err := m.codec.Issue(sess.WithRole(latest))
	if err != nil {
		m.logger.Error("failed to reissue token for role change",
			zap.String("subject", sess.SubjectID),
			zap.Error(err),
		)
		return sess.Role
	}

	m.logger.Info("session role refreshed",
		zap.String("subject", sess.SubjectID),
		zap.String("old_role", string(sess.Role)),
		zap.String("new_role", string(latest)),
	)
	cookie.SetSession(c.Writer, refreshed, m.secureCookie)
	return latest
}

func (m *SessionGate) redirectToLogin(c *gin.Context) {
	next := c.Request.URL.Path
	if q := c.Request.URL.RawQuery; q != "" {
		next += "?" + q
	}
	m.redirect(c, routing.LoginPath+"?next="+url.QueryEscape(next))
}

func (m *SessionGate) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
