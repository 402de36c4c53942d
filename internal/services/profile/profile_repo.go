package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepo handles database operations for user profiles
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `id, email, full_name, password_hash, role, tenant_id, created_at, updated_at`

// GetByID retrieves a profile by the auth provider's user id
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, profileColumns)

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, profileColumns)

	var p Profile
	err := r.db.GetContext(ctx, &p, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// List retrieves all profiles ordered by creation date
func (r *ProfileRepo) List(ctx context.Context) ([]*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, profileColumns)

	var profiles []*Profile
	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

// UpdateTenant binds a profile to a tenant
func (r *ProfileRepo) UpdateTenant(ctx context.Context, id string, tenantID uuid.UUID) (*Profile, error) {
	query := fmt.Sprintf(`
        UPDATE users
        SET tenant_id = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING %s
    `, profileColumns)

	var p Profile
	err := r.db.GetContext(ctx, &p, query, tenantID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to assign tenant: %w", err)
	}

	return &p, nil
}

// UpdateRole changes a profile's role
func (r *ProfileRepo) UpdateRole(ctx context.Context, id string, role Role) (*Profile, error) {
	query := fmt.Sprintf(`
        UPDATE users
        SET role = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING %s
    `, profileColumns)

	var p Profile
	err := r.db.GetContext(ctx, &p, query, role, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return &p, nil
}
