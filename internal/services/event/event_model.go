package event

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/services/speaker"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// LocationType says where an event takes place and which venue fields apply.
type LocationType string

const (
	LocationInPerson LocationType = "in_person"
	LocationVirtual  LocationType = "virtual"
	LocationHybrid   LocationType = "hybrid"
)

// DateTime wraps time.Time to accept both RFC3339 timestamps and bare
// "2006-01-02" dates in request payloads. Clients send either.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}

	return fmt.Errorf("invalid date %q", s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

// Scan implements the sql.Scanner interface for database/sql
func (d *DateTime) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}

	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("cannot scan %T into DateTime", value)
	}

	d.Time = t
	return nil
}

// Value implements the driver.Valuer interface for database/sql
func (d DateTime) Value() (driver.Value, error) {
	return d.Time, nil
}

// Event is a tenant-scoped event with venue, ticketing and registration
// settings.
type Event struct {
	ID                   uuid.UUID      `db:"id" json:"id"`
	TenantID             uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	Name                 string         `db:"name" json:"name"`
	Slug                 string         `db:"slug" json:"slug"`
	Description          string         `db:"description" json:"description"`
	ShortDescription     string         `db:"short_description" json:"short_description"`
	CoverImage           string         `db:"cover_image" json:"cover_image"`
	StartDate            DateTime       `db:"start_date" json:"start_date"`
	EndDate              *DateTime      `db:"end_date" json:"end_date"`
	Timezone             string         `db:"timezone" json:"timezone"`
	LocationType         LocationType   `db:"location_type" json:"location_type"`
	VenueName            string         `db:"venue_name" json:"venue_name"`
	VenueAddress         string         `db:"venue_address" json:"venue_address"`
	VirtualURL           string         `db:"virtual_url" json:"virtual_url"`
	Status               EventStatus    `db:"status" json:"status"`
	Capacity             *int           `db:"capacity" json:"capacity"`
	RegistrationEnabled  bool           `db:"registration_enabled" json:"registration_enabled"`
	RegistrationDeadline *DateTime      `db:"registration_deadline" json:"registration_deadline"`
	TicketPrice          float64        `db:"ticket_price" json:"ticket_price"`
	Currency             string         `db:"currency" json:"currency"`
	CreatedBy            *string        `db:"created_by" json:"created_by"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
	Speakers             []EventSpeaker `db:"-" json:"speakers,omitempty"`
}

// EventSpeaker is a speaker assignment on an event.
type EventSpeaker struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	EventID      uuid.UUID        `db:"event_id" json:"event_id"`
	SpeakerID    uuid.UUID        `db:"speaker_id" json:"speaker_id"`
	Role         string           `db:"role" json:"role"`
	SessionTitle string           `db:"session_title" json:"session_title"`
	DisplayOrder int              `db:"display_order" json:"display_order"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	Speaker      *speaker.Speaker `db:"-" json:"speaker,omitempty"`
}

// CreateEventRequest captures payload for creating an event
type CreateEventRequest struct {
	Name                 string       `json:"name"`
	Slug                 string       `json:"slug"`
	Description          string       `json:"description"`
	ShortDescription     string       `json:"short_description"`
	CoverImage           string       `json:"cover_image"`
	StartDate            DateTime     `json:"start_date"`
	EndDate              *DateTime    `json:"end_date"`
	Timezone             string       `json:"timezone"`
	LocationType         LocationType `json:"location_type"`
	VenueName            string       `json:"venue_name"`
	VenueAddress         string       `json:"venue_address"`
	VirtualURL           string       `json:"virtual_url"`
	Capacity             *int         `json:"capacity"`
	RegistrationEnabled  *bool        `json:"registration_enabled"`
	RegistrationDeadline *DateTime    `json:"registration_deadline"`
	TicketPrice          *float64     `json:"ticket_price"`
	Currency             string       `json:"currency"`
}

// UpdateEventRequest captures payload for updating an event
type UpdateEventRequest struct {
	Name                 *string       `json:"name,omitempty"`
	Slug                 *string       `json:"slug,omitempty"`
	Description          *string       `json:"description,omitempty"`
	ShortDescription     *string       `json:"short_description,omitempty"`
	CoverImage           *string       `json:"cover_image,omitempty"`
	StartDate            *DateTime     `json:"start_date,omitempty"`
	EndDate              *DateTime     `json:"end_date,omitempty"`
	Timezone             *string       `json:"timezone,omitempty"`
	LocationType         *LocationType `json:"location_type,omitempty"`
	VenueName            *string       `json:"venue_name,omitempty"`
	VenueAddress         *string       `json:"venue_address,omitempty"`
	VirtualURL           *string       `json:"virtual_url,omitempty"`
	Status               *EventStatus  `json:"status,omitempty"`
	Capacity             *int          `json:"capacity,omitempty"`
	RegistrationEnabled  *bool         `json:"registration_enabled,omitempty"`
	RegistrationDeadline *DateTime     `json:"registration_deadline,omitempty"`
	TicketPrice          *float64      `json:"ticket_price,omitempty"`
	Currency             *string       `json:"currency,omitempty"`
}

// AddSpeakerRequest captures payload for assigning a speaker to an event
type AddSpeakerRequest struct {
	SpeakerID    uuid.UUID `json:"speaker_id"`
	Role         string    `json:"role"`
	SessionTitle string    `json:"session_title"`
	DisplayOrder int       `json:"display_order"`
}
