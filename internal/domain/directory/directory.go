// internal/domain/directory/directory.go
package directory

import "context"

// UserRecord is a row from the system of record for user identity.
// Role is free text from upstream and must be whitelisted before use.
type UserRecord struct {
	ID           string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	TenantID     *int64 `json:"tenant_id"`
	IsActive     bool   `json:"is_active"`
	IsLocked     bool   `json:"is_locked"`
	PasswordHash string `json:"-"`
}

// Directory is the external system of record for user identity, role and
// status. A nil record with a nil error means no matching user exists;
// a non-nil error means the upstream itself could not be reached.
type Directory interface {
	FindUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	FindUserByID(ctx context.Context, id string) (*UserRecord, error)
}
