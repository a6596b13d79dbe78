// internal/pkg/token/claims.go
package token

import (
	"github.com/golang-jwt/jwt/v5"

	"vantage-console/internal/domain/session"
)

// Claims is the wire shape of a session token: the Session fields embedded
// verbatim plus the standard temporal claims.
type Claims struct {
	Email       string       `json:"email"`
	DisplayName *string      `json:"name,omitempty"`
	Role        session.Role `json:"role"`
	TenantID    *int64       `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Session rebuilds the in-memory principal from verified claims.
func (c *Claims) Session() *session.Session {
	return &session.Session{
		SubjectID:   c.Subject,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		Role:        c.Role,
		TenantID:    c.TenantID,
	}
}
