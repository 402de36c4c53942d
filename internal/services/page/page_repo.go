package page

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrSlugTaken    = errors.New("page slug already exists in this tenant")
)

// PageRepo handles database operations for pages. Every query is scoped by
// tenant_id; a page that belongs to another tenant is indistinguishable from
// one that does not exist.
type PageRepo struct {
	db *sqlx.DB
}

func NewPageRepo(db *sqlx.DB) *PageRepo {
	return &PageRepo{db: db}
}

const pageColumns = `id, tenant_id, name, slug, description, html, css, components, styles,
    status, is_homepage, meta_title, meta_description, published_at,
    created_by, updated_by, created_at, updated_at`

// ListByTenant retrieves all pages of a tenant ordered by last update
func (r *PageRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Page, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM pages
        WHERE tenant_id = $1
        ORDER BY updated_at DESC
    `, pageColumns)

	var pages []*Page
	err := r.db.SelectContext(ctx, &pages, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	return pages, nil
}

// GetByID retrieves a page by ID within the tenant scope
func (r *PageRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM pages WHERE id = $1 AND tenant_id = $2`, pageColumns)

	var p Page
	err := r.db.GetContext(ctx, &p, query, id, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	return &p, nil
}

// GetPublishedBySlug retrieves a published page by slug for public rendering
func (r *PageRepo) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM pages
        WHERE tenant_id = $1 AND slug = $2 AND status = 'published'
    `, pageColumns)

	var p Page
	err := r.db.GetContext(ctx, &p, query, tenantID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get published page: %w", err)
	}

	return &p, nil
}

// GetPublishedHomepage retrieves the tenant's published homepage
func (r *PageRepo) GetPublishedHomepage(ctx context.Context, tenantID uuid.UUID) (*Page, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM pages
        WHERE tenant_id = $1 AND is_homepage = true AND status = 'published'
        ORDER BY updated_at DESC
        LIMIT 1
    `, pageColumns)

	var p Page
	err := r.db.GetContext(ctx, &p, query, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get homepage: %w", err)
	}

	return &p, nil
}

// Create inserts a new draft page for the tenant
func (r *PageRepo) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req *CreatePageRequest) (*Page, error) {
	query := fmt.Sprintf(`
        INSERT INTO pages (tenant_id, name, slug, description, html, css, components, styles,
            meta_title, meta_description, created_by, updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
        RETURNING %s
    `, pageColumns)

	var p Page
	err := r.db.GetContext(ctx, &p, query,
		tenantID, req.Name, req.Slug, req.Description, req.HTML, req.CSS,
		req.Components, req.Styles, req.MetaTitle, req.MetaDescription, createdBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &p, nil
}

// Update applies the non-nil fields of the request to the page. tenant_id,
// created_by and created_at are never touched.
func (r *PageRepo) Update(ctx context.Context, tenantID, id uuid.UUID, updatedBy string, req *UpdatePageRequest) (*Page, error) {
	sets := []string{"updated_at = NOW()", "updated_by = :updated_by"}
	args := map[string]any{
		"id":         id,
		"tenant_id":  tenantID,
		"updated_by": updatedBy,
	}

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = :%s", column, column))
		args[column] = value
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Slug != nil {
		addSet("slug", *req.Slug)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.HTML != nil {
		addSet("html", *req.HTML)
	}
	if req.CSS != nil {
		addSet("css", *req.CSS)
	}
	if req.Components != nil {
		addSet("components", *req.Components)
	}
	if req.Styles != nil {
		addSet("styles", *req.Styles)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if req.IsHomepage != nil {
		addSet("is_homepage", *req.IsHomepage)
	}
	if req.MetaTitle != nil {
		addSet("meta_title", *req.MetaTitle)
	}
	if req.MetaDescription != nil {
		addSet("meta_description", *req.MetaDescription)
	}

	query := fmt.Sprintf(`
        UPDATE pages
        SET %s
        WHERE id = :id AND tenant_id = :tenant_id
        RETURNING %s
    `, strings.Join(sets, ", "), pageColumns)

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrPageNotFound
	}

	var p Page
	if err := rows.StructScan(&p); err != nil {
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}

	return &p, nil
}

// Publish marks a page as published and stamps published_at
func (r *PageRepo) Publish(ctx context.Context, tenantID, id uuid.UUID, updatedBy string) (*Page, error) {
	query := fmt.Sprintf(`
        UPDATE pages
        SET status = 'published', published_at = NOW(), updated_by = $3, updated_at = NOW()
        WHERE id = $1 AND tenant_id = $2
        RETURNING %s
    `, pageColumns)

	var p Page
	err := r.db.GetContext(ctx, &p, query, id, tenantID, updatedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to publish page: %w", err)
	}

	return &p, nil
}

// Delete removes a page within the tenant scope
func (r *PageRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM pages WHERE id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPageNotFound
	}

	return nil
}
