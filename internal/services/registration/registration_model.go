package registration

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
	StatusAttended  RegistrationStatus = "attended"
)

// CustomFields holds free-form answers collected by the registration form.
type CustomFields map[string]any

// Scan implements the sql.Scanner interface for database/sql
func (f *CustomFields) Scan(value interface{}) error {
	if value == nil {
		*f = CustomFields{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CustomFields", value)
	}

	return json.Unmarshal(bytes, f)
}

// Value implements the driver.Valuer interface for database/sql
func (f CustomFields) Value() (driver.Value, error) {
	if f == nil {
		return json.Marshal(map[string]any{})
	}
	return json.Marshal(f)
}

// Registration is an attendee registration on an event. UserID is set when the
// attendee registered while logged in and null for anonymous registrations.
type Registration struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	EventID      uuid.UUID          `db:"event_id" json:"event_id"`
	UserID       *string            `db:"user_id" json:"user_id"`
	Email        string             `db:"email" json:"email"`
	FullName     string             `db:"full_name" json:"full_name"`
	Company      string             `db:"company" json:"company"`
	Phone        string             `db:"phone" json:"phone"`
	JobTitle     string             `db:"job_title" json:"job_title"`
	TicketType   string             `db:"ticket_type" json:"ticket_type"`
	CustomFields CustomFields       `db:"custom_fields" json:"custom_fields"`
	Status       RegistrationStatus `db:"status" json:"status"`
	ConfirmedAt  *time.Time         `db:"confirmed_at" json:"confirmed_at"`
	CheckedInAt  *time.Time         `db:"checked_in_at" json:"checked_in_at"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// CreateRegistrationRequest is the public registration payload. UserID is
// never read from the body; the handler fills it from the resolved identity
// when the caller is logged in.
type CreateRegistrationRequest struct {
	EventID      uuid.UUID    `json:"event_id"`
	UserID       *string      `json:"-"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	Company      string       `json:"company"`
	Phone        string       `json:"phone"`
	JobTitle     string       `json:"job_title"`
	TicketType   string       `json:"ticket_type"`
	CustomFields CustomFields `json:"custom_fields"`
}

// UpdateStatusRequest changes a registration's status
type UpdateStatusRequest struct {
	Status RegistrationStatus `json:"status"`
}
