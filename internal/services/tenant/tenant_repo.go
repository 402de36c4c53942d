package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrSlugTaken      = errors.New("tenant slug already exists")
)

// TenantRepo handles database operations for tenants
type TenantRepo struct {
	db *sqlx.DB
}

func NewTenantRepo(db *sqlx.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

// Create creates a new tenant
func (r *TenantRepo) Create(ctx context.Context, req *CreateTenantRequest) (*Tenant, error) {
	query := `
        INSERT INTO tenants (name, slug, settings)
        VALUES ($1, $2, $3)
        RETURNING id, name, slug, settings, created_at, updated_at
    `

	var t Tenant
	err := r.db.GetContext(ctx, &t, query, req.Name, req.Slug, req.Settings)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return &t, nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	query := `
        SELECT id, name, slug, settings, created_at, updated_at
        FROM tenants
        WHERE id = $1
    `

	var t Tenant
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

// List retrieves all tenants ordered by creation date
func (r *TenantRepo) List(ctx context.Context) ([]*Tenant, error) {
	query := `
        SELECT id, name, slug, settings, created_at, updated_at
        FROM tenants
        ORDER BY created_at DESC
    `

	var tenants []*Tenant
	err := r.db.SelectContext(ctx, &tenants, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, nil
}

// GetBySlug retrieves a tenant by its public slug
func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	query := `
        SELECT id, name, slug, settings, created_at, updated_at
        FROM tenants
        WHERE slug = $1
    `

	var t Tenant
	err := r.db.GetContext(ctx, &t, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

// FirstTenantID returns the id of the oldest tenant. Used only by the
// super-admin default-tenant fallback.
func (r *TenantRepo) FirstTenantID(ctx context.Context) (uuid.UUID, error) {
	query := `SELECT id FROM tenants ORDER BY created_at ASC LIMIT 1`

	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, ErrTenantNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to pick default tenant: %w", err)
	}

	return id, nil
}

// Delete removes a tenant by ID
func (r *TenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tenants WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTenantNotFound
	}

	return nil
}
