package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pagecraft/pagecraft/internal/services/speaker"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrSlugTaken         = errors.New("event slug already exists in this tenant")
	ErrSpeakerAssigned   = errors.New("speaker is already assigned to this event")
	ErrSpeakerMissing    = errors.New("speaker not found")
	ErrSpeakerNotOnEvent = errors.New("speaker is not assigned to this event")
)

// EventRepo handles database operations for events and their speaker
// assignments, all tenant scoped.
type EventRepo struct {
	db *sqlx.DB
}

func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, tenant_id, name, slug, description, short_description, cover_image,
    start_date, end_date, timezone, location_type, venue_name, venue_address, virtual_url,
    status, capacity, registration_enabled, registration_deadline, ticket_price, currency,
    created_by, created_at, updated_at`

// ListByTenant retrieves the tenant's events, optionally filtered by status
func (r *EventRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status EventStatus) ([]*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE tenant_id = $1`, eventColumns)
	args := []any{tenantID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY start_date DESC`

	var events []*Event
	err := r.db.SelectContext(ctx, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// GetByID retrieves an event with its speaker assignments within the tenant scope
func (r *EventRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND tenant_id = $2`, eventColumns)

	var e Event
	err := r.db.GetContext(ctx, &e, query, id, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if e.Speakers, err = r.loadSpeakers(ctx, e.ID); err != nil {
		return nil, err
	}

	return &e, nil
}

// GetPublishedBySlug retrieves a published event by slug for the public site
func (r *EventRepo) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Event, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM events
        WHERE tenant_id = $1 AND slug = $2 AND status = 'published'
    `, eventColumns)

	var e Event
	err := r.db.GetContext(ctx, &e, query, tenantID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get published event: %w", err)
	}

	if e.Speakers, err = r.loadSpeakers(ctx, e.ID); err != nil {
		return nil, err
	}

	return &e, nil
}

// GetPublishedByID retrieves a published event regardless of tenant. Used by
// the public registration flow, which addresses events by id.
func (r *EventRepo) GetPublishedByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND status = 'published'`, eventColumns)

	var e Event
	err := r.db.GetContext(ctx, &e, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get published event: %w", err)
	}

	return &e, nil
}

// Create inserts a new draft event for the tenant
func (r *EventRepo) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req *CreateEventRequest) (*Event, error) {
	registrationEnabled := true
	if req.RegistrationEnabled != nil {
		registrationEnabled = *req.RegistrationEnabled
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	locationType := req.LocationType
	if locationType == "" {
		locationType = LocationInPerson
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var ticketPrice float64
	if req.TicketPrice != nil {
		ticketPrice = *req.TicketPrice
	}

	query := fmt.Sprintf(`
        INSERT INTO events (tenant_id, name, slug, description, short_description, cover_image,
            start_date, end_date, timezone, location_type, venue_name, venue_address,
            virtual_url, capacity, registration_enabled, registration_deadline,
            ticket_price, currency, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        RETURNING %s
    `, eventColumns)

	var e Event
	err := r.db.GetContext(ctx, &e, query,
		tenantID, req.Name, req.Slug, req.Description, req.ShortDescription, req.CoverImage,
		req.StartDate, req.EndDate, timezone, locationType, req.VenueName, req.VenueAddress,
		req.VirtualURL, req.Capacity, registrationEnabled, req.RegistrationDeadline,
		ticketPrice, currency, createdBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &e, nil
}

// Update applies the non-nil fields of the request to the event. tenant_id,
// created_by and created_at are never touched.
func (r *EventRepo) Update(ctx context.Context, tenantID, id uuid.UUID, req *UpdateEventRequest) (*Event, error) {
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
	if req.Slug != nil {
		addSet("slug", *req.Slug)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.ShortDescription != nil {
		addSet("short_description", *req.ShortDescription)
	}
	if req.CoverImage != nil {
		addSet("cover_image", *req.CoverImage)
	}
	if req.StartDate != nil {
		addSet("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		addSet("end_date", *req.EndDate)
	}
	if req.Timezone != nil {
		addSet("timezone", *req.Timezone)
	}
	if req.LocationType != nil {
		addSet("location_type", *req.LocationType)
	}
	if req.VenueName != nil {
		addSet("venue_name", *req.VenueName)
	}
	if req.VenueAddress != nil {
		addSet("venue_address", *req.VenueAddress)
	}
	if req.VirtualURL != nil {
		addSet("virtual_url", *req.VirtualURL)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if req.Capacity != nil {
		addSet("capacity", *req.Capacity)
	}
	if req.RegistrationEnabled != nil {
		addSet("registration_enabled", *req.RegistrationEnabled)
	}
	if req.RegistrationDeadline != nil {
		addSet("registration_deadline", *req.RegistrationDeadline)
	}
	if req.TicketPrice != nil {
		addSet("ticket_price", *req.TicketPrice)
	}
	if req.Currency != nil {
		addSet("currency", *req.Currency)
	}

	query := fmt.Sprintf(`
        UPDATE events
        SET %s
        WHERE id = :id AND tenant_id = :tenant_id
        RETURNING %s
    `, strings.Join(sets, ", "), eventColumns)

	rows, err := r.db.NamedQueryContext(ctx, query, args)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrEventNotFound
	}

	var e Event
	if err := rows.StructScan(&e); err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	return &e, nil
}

// Publish marks an event as published
func (r *EventRepo) Publish(ctx context.Context, tenantID, id uuid.UUID) (*Event, error) {
	query := fmt.Sprintf(`
        UPDATE events
        SET status = 'published', updated_at = NOW()
        WHERE id = $1 AND tenant_id = $2
        RETURNING %s
    `, eventColumns)

	var e Event
	err := r.db.GetContext(ctx, &e, query, id, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	return &e, nil
}

// Delete removes an event within the tenant scope
func (r *EventRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// AddSpeaker assigns a speaker to an event
func (r *EventRepo) AddSpeaker(ctx context.Context, eventID uuid.UUID, req *AddSpeakerRequest) (*EventSpeaker, error) {
	role := req.Role
	if role == "" {
		role = "speaker"
	}

	query := `
        INSERT INTO event_speakers (event_id, speaker_id, role, session_title, display_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, event_id, speaker_id, role, session_title, display_order, created_at
    `

	var es EventSpeaker
	err := r.db.GetContext(ctx, &es, query, eventID, req.SpeakerID, role, req.SessionTitle, req.DisplayOrder)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, ErrSpeakerAssigned
			case "23503":
				return nil, ErrSpeakerMissing
			}
		}
		return nil, fmt.Errorf("failed to add event speaker: %w", err)
	}

	return &es, nil
}

// RemoveSpeaker removes a speaker assignment from an event
func (r *EventRepo) RemoveSpeaker(ctx context.Context, eventID, speakerID uuid.UUID) error {
	query := `DELETE FROM event_speakers WHERE event_id = $1 AND speaker_id = $2`

	result, err := r.db.ExecContext(ctx, query, eventID, speakerID)
	if err != nil {
		return fmt.Errorf("failed to remove event speaker: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSpeakerNotOnEvent
	}

	return nil
}

// loadSpeakers fetches the event's speaker assignments with speaker details
func (r *EventRepo) loadSpeakers(ctx context.Context, eventID uuid.UUID) ([]EventSpeaker, error) {
	query := `
        SELECT id, event_id, speaker_id, role, session_title, display_order, created_at
        FROM event_speakers
        WHERE event_id = $1
        ORDER BY display_order ASC
    `

	var assignments []EventSpeaker
	if err := r.db.SelectContext(ctx, &assignments, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to list event speakers: %w", err)
	}

	if len(assignments) == 0 {
		return assignments, nil
	}

	ids := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.SpeakerID)
	}

	speakerQuery, speakerArgs, err := sqlx.In(`
        SELECT id, tenant_id, name, title, company, bio, photo_url, email,
            social_links, is_featured, display_order, created_at, updated_at
        FROM speakers
        WHERE id IN (?)
    `, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build speaker query: %w", err)
	}

	var speakers []*speaker.Speaker
	if err := r.db.SelectContext(ctx, &speakers, r.db.Rebind(speakerQuery), speakerArgs...); err != nil {
		return nil, fmt.Errorf("failed to load speakers: %w", err)
	}

	byID := make(map[uuid.UUID]*speaker.Speaker, len(speakers))
	for _, s := range speakers {
		byID[s.ID] = s
	}
	for i := range assignments {
		assignments[i].Speaker = byID[assignments[i].SpeakerID]
	}

	return assignments, nil
}
