// internal/middleware/helpers.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"vantage-console/internal/domain/session"
)

// CurrentSession returns the verified principal stashed by the gate.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}

	sess, ok := v.(*session.Session)
	return sess, ok
}
