package tenant

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// Settings represents per-tenant settings stored in JSONB
type Settings map[string]any

// Scan implements the sql.Scanner interface for database/sql
func (s *Settings) Scan(value interface{}) error {
	if value == nil {
		*s = make(map[string]any)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Settings", value)
	}

	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for database/sql
func (s Settings) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(map[string]any{})
	}
	return json.Marshal(s)
}

// Tenant is the isolation boundary. Every business entity carries a tenant id
// and every scoped query filters by it.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Settings  Settings  `db:"settings" json:"settings"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateTenantRequest captures payload for creating a tenant
type CreateTenantRequest struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Settings Settings `json:"settings,omitempty"`
}
