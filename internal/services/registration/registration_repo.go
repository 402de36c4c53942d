package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("email is already registered for this event")
)

// RegistrationRepo handles database operations for event registrations.
// Duplicate protection is enforced by the UNIQUE(event_id, email) constraint;
// the application-level lookup is only a fast path for a friendlier error.
type RegistrationRepo struct {
	db *sqlx.DB
}

func NewRegistrationRepo(db *sqlx.DB) *RegistrationRepo {
	return &RegistrationRepo{db: db}
}

const registrationColumns = `id, event_id, user_id, email, full_name, company, phone,
    job_title, ticket_type, custom_fields, status, confirmed_at, checked_in_at,
    created_at, updated_at`

// Create inserts a new pending registration
func (r *RegistrationRepo) Create(ctx context.Context, req *CreateRegistrationRequest) (*Registration, error) {
	ticketType := req.TicketType
	if ticketType == "" {
		ticketType = "general"
	}

	query := fmt.Sprintf(`
        INSERT INTO event_registrations (event_id, user_id, email, full_name, company, phone,
            job_title, ticket_type, custom_fields)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING %s
    `, registrationColumns)

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query,
		req.EventID, req.UserID, req.Email, req.FullName, req.Company, req.Phone,
		req.JobTitle, ticketType, req.CustomFields)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	return &reg, nil
}

// ExistsByEventAndEmail reports whether the email already registered for the event
func (r *RegistrationRepo) ExistsByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = $1 AND email = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventID, email); err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}

	return exists, nil
}

// CountActiveByEvent counts non-cancelled registrations for capacity checks
func (r *RegistrationRepo) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status != 'cancelled'`

	var count int
	if err := r.db.GetContext(ctx, &count, query, eventID); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	return count, nil
}

// ListByEvent retrieves the event's registrations, optionally filtered by status
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID uuid.UUID, status RegistrationStatus) ([]*Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_registrations WHERE event_id = $1`, registrationColumns)
	args := []any{eventID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var registrations []*Registration
	err := r.db.SelectContext(ctx, &registrations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	return registrations, nil
}

// GetByID retrieves a registration by id
func (r *RegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_registrations WHERE id = $1`, registrationColumns)

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return &reg, nil
}

// UpdateStatus transitions a registration, stamping confirmed_at or
// checked_in_at on the matching transitions
func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status RegistrationStatus) (*Registration, error) {
	query := fmt.Sprintf(`
        UPDATE event_registrations
        SET status = $2,
            confirmed_at = CASE WHEN $2 = 'confirmed' THEN NOW() ELSE confirmed_at END,
            checked_in_at = CASE WHEN $2 = 'attended' THEN NOW() ELSE checked_in_at END,
            updated_at = NOW()
        WHERE id = $1
        RETURNING %s
    `, registrationColumns)

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query, id, status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}

	return &reg, nil
}
