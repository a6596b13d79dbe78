// internal/domain/auth/dto.go
package auth

import "vantage-console/internal/domain/session"

// LoginRequest for console login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// Next is a client-supplied return path; honored only when it is a
	// same-origin relative path (leading "/").
	Next      string `json:"next"`
	IPAddress string `json:"-"`
}

// UserSummary is the minimal user payload returned on login
type UserSummary struct {
	Email    string       `json:"email"`
	Role     session.Role `json:"role"`
	TenantID *int64       `json:"tenant_id"`
}

// LoginResult successful login response plus the signed token the handler
// attaches as the session cookie
type LoginResult struct {
	Token    string      `json:"-"`
	Redirect string      `json:"redirect"`
	User     UserSummary `json:"user"`
}

// ActivateRequest for the set-password activation flow
type ActivateRequest struct {
	Tenant   string `json:"tenant" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
