package event

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNameRequired        = errors.New("event name is required")
	ErrSlugRequired        = errors.New("event slug is required")
	ErrStartDateRequired   = errors.New("event start date is required")
	ErrInvalidStatus       = errors.New("invalid event status")
	ErrInvalidLocationType = errors.New("location type must be in_person, virtual or hybrid")
)

var validStatuses = map[EventStatus]struct{}{
	StatusDraft:     {},
	StatusPublished: {},
	StatusCancelled: {},
	StatusCompleted: {},
}

var validLocationTypes = map[LocationType]struct{}{
	LocationInPerson: {},
	LocationVirtual:  {},
	LocationHybrid:   {},
}

// EventService contains business logic for events
type EventService struct {
	repo *EventRepo
}

func NewEventService(repo *EventRepo) *EventService {
	return &EventService{repo: repo}
}

// List returns the tenant's events, optionally filtered by status
func (s *EventService) List(ctx context.Context, tenantID uuid.UUID, status EventStatus) ([]*Event, error) {
	if status != "" {
		if _, ok := validStatuses[status]; !ok {
			return nil, ErrInvalidStatus
		}
	}

	return s.repo.ListByTenant(ctx, tenantID, status)
}

// Get returns an event with its speakers within the tenant scope
func (s *EventService) Get(ctx context.Context, tenantID, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// GetPublishedBySlug returns a published event for the public site
func (s *EventService) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Event, error) {
	return s.repo.GetPublishedBySlug(ctx, tenantID, slug)
}

// GetPublishedByID returns a published event regardless of tenant
func (s *EventService) GetPublishedByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetPublishedByID(ctx, id)
}

// Create validates and creates a new draft event
func (s *EventService) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req *CreateEventRequest) (*Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.Slug == "" {
		return nil, ErrSlugRequired
	}
	if req.StartDate.IsZero() {
		return nil, ErrStartDateRequired
	}
	if req.LocationType != "" {
		if _, ok := validLocationTypes[req.LocationType]; !ok {
			return nil, ErrInvalidLocationType
		}
	}

	return s.repo.Create(ctx, tenantID, createdBy, req)
}

// Update applies a partial update to an event
func (s *EventService) Update(ctx context.Context, tenantID, id uuid.UUID, req *UpdateEventRequest) (*Event, error) {
	if req.Status != nil {
		if _, ok := validStatuses[*req.Status]; !ok {
			return nil, ErrInvalidStatus
		}
	}
	if req.LocationType != nil {
		if _, ok := validLocationTypes[*req.LocationType]; !ok {
			return nil, ErrInvalidLocationType
		}
	}

	return s.repo.Update(ctx, tenantID, id, req)
}

// Publish marks an event as published
func (s *EventService) Publish(ctx context.Context, tenantID, id uuid.UUID) (*Event, error) {
	return s.repo.Publish(ctx, tenantID, id)
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// AddSpeaker assigns a speaker to an event. The event lookup doubles as the
// tenant ownership check.
func (s *EventService) AddSpeaker(ctx context.Context, tenantID, eventID uuid.UUID, req *AddSpeakerRequest) (*EventSpeaker, error) {
	if _, err := s.repo.GetByID(ctx, tenantID, eventID); err != nil {
		return nil, err
	}

	return s.repo.AddSpeaker(ctx, eventID, req)
}

// RemoveSpeaker removes a speaker assignment from an event
func (s *EventService) RemoveSpeaker(ctx context.Context, tenantID, eventID, speakerID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, tenantID, eventID); err != nil {
		return err
	}

	return s.repo.RemoveSpeaker(ctx, eventID, speakerID)
}
