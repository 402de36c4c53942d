package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/services/event"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrFullNameRequired   = errors.New("full name is required")
	ErrEventRequired      = errors.New("event_id is required")
	ErrRegistrationClosed = errors.New("registration is closed for this event")
	ErrDeadlinePassed     = errors.New("registration deadline has passed")
	ErrEventFull          = errors.New("event is at capacity")
	ErrInvalidStatus      = errors.New("invalid registration status")
)

var validStatuses = map[RegistrationStatus]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusCancelled: {},
	StatusAttended:  {},
}

// EventStore is the slice of the event service the registration flow needs.
type EventStore interface {
	GetPublishedByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*event.Event, error)
}

// Store is the persistence surface of the registration flow, implemented by
// RegistrationRepo.
type Store interface {
	Create(ctx context.Context, req *CreateRegistrationRequest) (*Registration, error)
	ExistsByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (bool, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, status RegistrationStatus) ([]*Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status RegistrationStatus) (*Registration, error)
}

// RegistrationService contains business logic for event registrations
type RegistrationService struct {
	repo   Store
	events EventStore
}

func NewRegistrationService(repo Store, events EventStore) *RegistrationService {
	return &RegistrationService{repo: repo, events: events}
}

// Register handles a public registration: the event must be published with
// registration open, the email must be new and capacity must not be exceeded.
// The capacity check races with concurrent inserts and is best effort; the
// duplicate check is backed by the unique constraint and is not.
func (s *RegistrationService) Register(ctx context.Context, req *CreateRegistrationRequest) (*Registration, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if req.EventID == uuid.Nil {
		return nil, ErrEventRequired
	}
	if req.Email == "" {
		return nil, ErrEmailRequired
	}
	if req.FullName == "" {
		return nil, ErrFullNameRequired
	}

	evt, err := s.events.GetPublishedByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if !evt.RegistrationEnabled {
		return nil, ErrRegistrationClosed
	}
	if evt.RegistrationDeadline != nil && evt.RegistrationDeadline.Before(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	exists, err := s.repo.ExistsByEventAndEmail(ctx, evt.ID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRegistration
	}

	if evt.Capacity != nil {
		count, err := s.repo.CountActiveByEvent(ctx, evt.ID)
		if err != nil {
			return nil, err
		}
		if count >= *evt.Capacity {
			return nil, ErrEventFull
		}
	}

	return s.repo.Create(ctx, req)
}

// ListByEvent returns an event's registrations after verifying the event
// belongs to the tenant
func (s *RegistrationService) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID, status RegistrationStatus) ([]*Registration, error) {
	if status != "" {
		if _, ok := validStatuses[status]; !ok {
			return nil, ErrInvalidStatus
		}
	}

	if _, err := s.events.Get(ctx, tenantID, eventID); err != nil {
		return nil, err
	}

	return s.repo.ListByEvent(ctx, eventID, status)
}

// UpdateStatus transitions a registration after verifying its event belongs
// to the tenant
func (s *RegistrationService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status RegistrationStatus) (*Registration, error) {
	if _, ok := validStatuses[status]; !ok {
		return nil, ErrInvalidStatus
	}

	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.events.Get(ctx, tenantID, reg.EventID); err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// Cancel marks a registration as cancelled
func (s *RegistrationService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*Registration, error) {
	return s.UpdateStatus(ctx, tenantID, id, StatusCancelled)
}
