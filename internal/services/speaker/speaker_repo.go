package speaker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrSpeakerNotFound = errors.New("speaker not found")

// SpeakerRepo handles database operations for speakers, all tenant scoped.
type SpeakerRepo struct {
	db *sqlx.DB
}

func NewSpeakerRepo(db *sqlx.DB) *SpeakerRepo {
	return &SpeakerRepo{db: db}
}

const speakerColumns = `id, tenant_id, name, title, company, bio, photo_url, email,
    social_links, is_featured, display_order, created_at, updated_at`

// ListByTenant retrieves the tenant's speakers, optionally only featured ones
func (r *SpeakerRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, featuredOnly bool) ([]*Speaker, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM speakers
        WHERE tenant_id = $1
    `, speakerColumns)
	if featuredOnly {
		query += ` AND is_featured = true`
	}
	query += ` ORDER BY display_order ASC, name ASC`

	var speakers []*Speaker
	err := r.db.SelectContext(ctx, &speakers, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list speakers: %w", err)
	}

	return speakers, nil
}

// GetByID retrieves a speaker within the tenant scope
func (r *SpeakerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Speaker, error) {
	query := fmt.Sprintf(`SELECT %s FROM speakers WHERE id = $1 AND tenant_id = $2`, speakerColumns)

	var s Speaker
	err := r.db.GetContext(ctx, &s, query, id, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("failed to get speaker: %w", err)
	}

	return &s, nil
}

// Create inserts a new speaker for the tenant
func (r *SpeakerRepo) Create(ctx context.Context, tenantID uuid.UUID, req *CreateSpeakerRequest) (*Speaker, error) {
	query := fmt.Sprintf(`
        INSERT INTO speakers (tenant_id, name, title, company, bio, photo_url, email,
            social_links, is_featured, display_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING %s
    `, speakerColumns)

	var s Speaker
	err := r.db.GetContext(ctx, &s, query,
		tenantID, req.Name, req.Title, req.Company, req.Bio, req.PhotoURL,
		req.Email, req.SocialLinks, req.IsFeatured, req.DisplayOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create speaker: %w", err)
	}

	return &s, nil
}

// Update applies the non-nil fields of the request to the speaker
func (r *SpeakerRepo) Update(ctx context.Context, tenantID, id uuid.UUID, req *UpdateSpeakerRequest) (*Speaker, error) {
	sets := []string{"updated_at = NOW()"}
	args := map[string]any{
		"id":        id,
		"tenant_id": tenantID,
	}

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = :%s", column, column))
		args[column] = value
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.Company != nil {
		addSet("company", *req.Company)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}
	if req.PhotoURL != nil {
		addSet("photo_url", *req.PhotoURL)
	}
	if req.Email != nil {
		addSet("email", *req.Email)
	}
	if req.SocialLinks != nil {
		addSet("social_links", *req.SocialLinks)
	}
	if req.IsFeatured != nil {
		addSet("is_featured", *req.IsFeatured)
	}
	if req.DisplayOrder != nil {
		addSet("display_order", *req.DisplayOrder)
	}

	query := fmt.Sprintf(`
        UPDATE speakers
        SET %s
        WHERE id = :id AND tenant_id = :tenant_id
        RETURNING %s
    `, strings.Join(sets, ", "), speakerColumns)

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to update speaker: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrSpeakerNotFound
	}

	var s Speaker
	if err := rows.StructScan(&s); err != nil {
		return nil, fmt.Errorf("failed to scan speaker: %w", err)
	}

	return &s, nil
}

// Delete removes a speaker within the tenant scope
func (r *SpeakerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM speakers WHERE id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete speaker: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSpeakerNotFound
	}

	return nil
}
