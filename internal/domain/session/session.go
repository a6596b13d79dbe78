// internal/domain/session/session.go
package session

import "strings"

// Role is the single capability axis of the console.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOwner      Role = "OWNER"
	RoleAdmin      Role = "ADMIN"
	RoleTenant     Role = "TENANT"
)

// Elevated reports whether the role may reach the restricted /admin prefix.
func (r Role) Elevated() bool {
	return r == RoleSuperAdmin || r == RoleOwner
}

// Valid reports whether the role is one of the four recognized values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleAdmin, RoleTenant:
		return true
	}
	return false
}

// ParseRole whitelists a free-text role string coming from the directory.
// Unrecognized input falls back to the least-privileged role; upstream text
// is never trusted as authoritative.
func ParseRole(s string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return RoleTenant
	}
	return r
}

// Session is the authenticated principal carried verbatim inside the token.
// It is never persisted server-side: created at login or token refresh,
// destroyed when the token expires or the cookie is cleared.
type Session struct {
	SubjectID   string  `json:"sub"`
	Email       string  `json:"email"`
	DisplayName *string `json:"name,omitempty"`
	Role        Role    `json:"role"`
	TenantID    *int64  `json:"tenant_id"`
}

// WithRole returns a copy of the session with only the role replaced.
// SubjectID and Email are immutable for a token's lifetime; role is the one
// field subject to server-side correction after issuance.
func (s *Session) WithRole(role Role) *Session {
	out := *s
	out.Role = role
	return &out
}
