package template

import (
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/services/page"
)

// Template is a reusable page design. Tenant-owned templates carry the owning
// tenant id; public templates have no tenant and are visible to everyone.
type Template struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	TenantID     uuid.NullUUID      `db:"tenant_id" json:"tenant_id"`
	Name         string             `db:"name" json:"name"`
	Description  string             `db:"description" json:"description"`
	Category     string             `db:"category" json:"category"`
	ThumbnailURL string             `db:"thumbnail_url" json:"thumbnail_url"`
	Components   page.ComponentList `db:"components" json:"components"`
	Styles       page.StyleList     `db:"styles" json:"styles"`
	IsPublic     bool               `db:"is_public" json:"is_public"`
	CreatedBy    *string            `db:"created_by" json:"created_by"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// CreateTemplateRequest captures payload for creating a template
type CreateTemplateRequest struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	ThumbnailURL string             `json:"thumbnail_url"`
	Components   page.ComponentList `json:"components"`
	Styles       page.StyleList     `json:"styles"`
}
