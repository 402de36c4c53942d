package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ProfileService contains business logic for user profiles
type ProfileService struct {
	repo *ProfileRepo
}

func NewProfileService(repo *ProfileRepo) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetByID fetches a profile by the auth provider's user id
func (s *ProfileService) GetByID(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail fetches a profile by email
func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return s.repo.GetByEmail(ctx, email)
}

// List returns all profiles ordered by creation time
func (s *ProfileService) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

// Authenticate verifies an email/password pair against the stored bcrypt hash.
// Profiles without a password hash cannot log in locally.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*Profile, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if p.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*p.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p, nil
}

// AssignTenant binds a profile to a tenant
func (s *ProfileService) AssignTenant(ctx context.Context, id string, tenantID uuid.UUID) (*Profile, error) {
	p, err := s.repo.UpdateTenant(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to assign tenant: %w", err)
	}

	return p, nil
}

// UpdateRole changes a profile's role. The role must already be validated via
// ParseRole at the edge.
func (s *ProfileService) UpdateRole(ctx context.Context, id string, role Role) (*Profile, error) {
	p, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return p, nil
}
