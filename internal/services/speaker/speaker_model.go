package speaker

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// SocialLinks maps a platform name to a profile URL, stored as JSONB.
type SocialLinks map[string]string

// Scan implements the sql.Scanner interface for database/sql
func (l *SocialLinks) Scan(value interface{}) error {
	if value == nil {
		*l = SocialLinks{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SocialLinks", value)
	}

	return json.Unmarshal(bytes, l)
}

// Value implements the driver.Valuer interface for database/sql
func (l SocialLinks) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(l)
}

// Speaker is a tenant-scoped speaker profile reusable across events.
type Speaker struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TenantID     uuid.UUID   `db:"tenant_id" json:"tenant_id"`
	Name         string      `db:"name" json:"name"`
	Title        string      `db:"title" json:"title"`
	Company      string      `db:"company" json:"company"`
	Bio          string      `db:"bio" json:"bio"`
	PhotoURL     string      `db:"photo_url" json:"photo_url"`
	Email        string      `db:"email" json:"email"`
	SocialLinks  SocialLinks `db:"social_links" json:"social_links"`
	IsFeatured   bool        `db:"is_featured" json:"is_featured"`
	DisplayOrder int         `db:"display_order" json:"display_order"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// CreateSpeakerRequest captures payload for creating a speaker
type CreateSpeakerRequest struct {
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	Company      string      `json:"company"`
	Bio          string      `json:"bio"`
	PhotoURL     string      `json:"photo_url"`
	Email        string      `json:"email"`
	SocialLinks  SocialLinks `json:"social_links"`
	IsFeatured   bool        `json:"is_featured"`
	DisplayOrder int         `json:"display_order"`
}

// UpdateSpeakerRequest captures payload for updating a speaker
type UpdateSpeakerRequest struct {
	Name         *string      `json:"name,omitempty"`
	Title        *string      `json:"title,omitempty"`
	Company      *string      `json:"company,omitempty"`
	Bio          *string      `json:"bio,omitempty"`
	PhotoURL     *string      `json:"photo_url,omitempty"`
	Email        *string      `json:"email,omitempty"`
	SocialLinks  *SocialLinks `json:"social_links,omitempty"`
	IsFeatured   *bool        `json:"is_featured,omitempty"`
	DisplayOrder *int         `json:"display_order,omitempty"`
}
