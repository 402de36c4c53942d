package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pagecraft/pagecraft/internal/services/page"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateRepo handles database operations for page templates. Reads span the
// tenant's own templates plus the public catalog; writes are own-only.
type TemplateRepo struct {
	db *sqlx.DB
}

func NewTemplateRepo(db *sqlx.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

const templateColumns = `id, tenant_id, name, description, category, thumbnail_url,
    components, styles, is_public, created_by, created_at, updated_at`

// ListAvailable retrieves the tenant's own and all public templates,
// optionally filtered by category
func (r *TemplateRepo) ListAvailable(ctx context.Context, tenantID uuid.UUID, category string) ([]*Template, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM page_templates
        WHERE (tenant_id = $1 OR is_public = true)
    `, templateColumns)
	args := []any{tenantID}

	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	var templates []*Template
	err := r.db.SelectContext(ctx, &templates, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}

// GetAvailable retrieves a template the tenant may use: its own or a public one
func (r *TemplateRepo) GetAvailable(ctx context.Context, tenantID, id uuid.UUID) (*Template, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM page_templates
        WHERE id = $1 AND (tenant_id = $2 OR is_public = true)
    `, templateColumns)

	var t Template
	err := r.db.GetContext(ctx, &t, query, id, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return &t, nil
}

// Create inserts a new tenant-owned template
func (r *TemplateRepo) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, name, description, category, thumbnailURL string, components page.ComponentList, styles page.StyleList) (*Template, error) {
	query := fmt.Sprintf(`
        INSERT INTO page_templates (tenant_id, name, description, category, thumbnail_url,
            components, styles, is_public, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
        RETURNING %s
    `, templateColumns)

	var t Template
	err := r.db.GetContext(ctx, &t, query,
		tenantID, name, description, category, thumbnailURL, components, styles, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return &t, nil
}

// Delete removes a template the tenant owns. Public templates cannot be
// deleted through the API.
func (r *TemplateRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM page_templates WHERE id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
