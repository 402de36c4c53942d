package page

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type PageStatus string

const (
	StatusDraft     PageStatus = "draft"
	StatusPublished PageStatus = "published"
)

// ComponentList is the editor's component tree stored in JSONB. The backend
// treats it as opaque; only the embedded editor interprets it.
type ComponentList []any

// Scan implements the sql.Scanner interface for database/sql
func (c *ComponentList) Scan(value interface{}) error {
	if value == nil {
		*c = ComponentList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ComponentList", value)
	}

	return json.Unmarshal(bytes, c)
}

// Value implements the driver.Valuer interface for database/sql
func (c ComponentList) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]any{})
	}
	return json.Marshal(c)
}

// StyleList is the editor's style sheet tree stored in JSONB, opaque as well.
type StyleList []any

// Scan implements the sql.Scanner interface for database/sql
func (s *StyleList) Scan(value interface{}) error {
	if value == nil {
		*s = StyleList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StyleList", value)
	}

	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for database/sql
func (s StyleList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]any{})
	}
	return json.Marshal(s)
}

// Page is a tenant-scoped page built in the embedded editor.
type Page struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	TenantID        uuid.UUID     `db:"tenant_id" json:"tenant_id"`
	Name            string        `db:"name" json:"name"`
	Slug            string        `db:"slug" json:"slug"`
	Description     string        `db:"description" json:"description"`
	HTML            string        `db:"html" json:"html"`
	CSS             string        `db:"css" json:"css"`
	Components      ComponentList `db:"components" json:"components"`
	Styles          StyleList     `db:"styles" json:"styles"`
	Status          PageStatus    `db:"status" json:"status"`
	IsHomepage      bool          `db:"is_homepage" json:"is_homepage"`
	MetaTitle       string        `db:"meta_title" json:"meta_title"`
	MetaDescription string        `db:"meta_description" json:"meta_description"`
	PublishedAt     *time.Time    `db:"published_at" json:"published_at"`
	CreatedBy       *string       `db:"created_by" json:"created_by"`
	UpdatedBy       *string       `db:"updated_by" json:"updated_by"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// CreatePageRequest captures payload for creating a page
type CreatePageRequest struct {
	Name            string        `json:"name"`
	Slug            string        `json:"slug"`
	Description     string        `json:"description"`
	HTML            string        `json:"html"`
	CSS             string        `json:"css"`
	Components      ComponentList `json:"components"`
	Styles          StyleList     `json:"styles"`
	MetaTitle       string        `json:"meta_title"`
	MetaDescription string        `json:"meta_description"`
}

// UpdatePageRequest captures payload for updating a page
type UpdatePageRequest struct {
	Name            *string        `json:"name,omitempty"`
	Slug            *string        `json:"slug,omitempty"`
	Description     *string        `json:"description,omitempty"`
	HTML            *string        `json:"html,omitempty"`
	CSS             *string        `json:"css,omitempty"`
	Components      *ComponentList `json:"components,omitempty"`
	Styles          *StyleList     `json:"styles,omitempty"`
	Status          *PageStatus    `json:"status,omitempty"`
	IsHomepage      *bool          `json:"is_homepage,omitempty"`
	MetaTitle       *string        `json:"meta_title,omitempty"`
	MetaDescription *string        `json:"meta_description,omitempty"`
}
