// internal/repository/postgres/directory_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vantage-console/internal/domain/directory"
	xerrors "vantage-console/internal/pkg/errors"
)

// DirectoryRepository implements directory.Directory against the console's
// own user view, for deployments that run next to the database instead of
// behind the ORDS gateway.
type DirectoryRepository struct {
	db *pgxpool.Pool
}

func NewDirectoryRepository(db *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) FindUserByEmail(ctx context.Context, email string) (*directory.UserRecord, error) {
	query := `
		SELECT user_id, email, full_name, role, tenant_id,
		       isactive, is_locked, password_hash
		FROM console_users
		WHERE LOWER(email) = LOWER($1)
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *DirectoryRepository) FindUserByID(ctx context.Context, id string) (*directory.UserRecord, error) {
	query := `
		SELECT user_id, email, full_name, role, tenant_id,
		       isactive, is_locked, password_hash
		FROM console_users
		WHERE user_id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *DirectoryRepository) scanUser(row pgx.Row) (*directory.UserRecord, error) {
	var (
		rec      directory.UserRecord
		fullName *string
		active   int16
		locked   int16
	)

	err := row.Scan(
		&rec.ID, &rec.Email, &fullName, &rec.Role, &rec.TenantID,
		&active, &locked, &rec.PasswordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUpstreamUnavailable, err)
	}

	if fullName != nil {
		rec.FullName = *fullName
	}
	rec.IsActive = active == 1
	rec.IsLocked = locked == 1

	return &rec, nil
}
