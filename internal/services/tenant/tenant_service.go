package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TenantService contains business logic for tenants
type TenantService struct {
	repo *TenantRepo
}

func NewTenantService(repo *TenantRepo) *TenantService {
	return &TenantService{repo: repo}
}

// Create registers a new tenant. Slug uniqueness is enforced by the store.
func (s *TenantService) Create(ctx context.Context, req *CreateTenantRequest) (*Tenant, error) {
	if req.Name == "" || req.Slug == "" {
		return nil, fmt.Errorf("tenant name and slug are required")
	}

	t, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return t, nil
}

// GetByID fetches a tenant by its identifier
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug fetches a tenant by its public slug
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List returns all tenants ordered by creation time
func (s *TenantService) List(ctx context.Context) ([]*Tenant, error) {
	return s.repo.List(ctx)
}

// FirstTenantID returns the oldest tenant's id for the super-admin fallback.
func (s *TenantService) FirstTenantID(ctx context.Context) (uuid.UUID, error) {
	return s.repo.FirstTenantID(ctx)
}

// Delete removes a tenant by ID
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	return nil
}
