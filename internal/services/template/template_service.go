package template

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrNameRequired = errors.New("template name is required")

// TemplateService contains business logic for page templates
type TemplateService struct {
	repo *TemplateRepo
}

func NewTemplateService(repo *TemplateRepo) *TemplateService {
	return &TemplateService{repo: repo}
}

// List returns the tenant's own and all public templates
func (s *TemplateService) List(ctx context.Context, tenantID uuid.UUID, category string) ([]*Template, error) {
	return s.repo.ListAvailable(ctx, tenantID, category)
}

// Get returns a template the tenant may use
func (s *TemplateService) Get(ctx context.Context, tenantID, id uuid.UUID) (*Template, error) {
	return s.repo.GetAvailable(ctx, tenantID, id)
}

// Create validates and creates a tenant-owned template
func (s *TemplateService) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req *CreateTemplateRequest) (*Template, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	return s.repo.Create(ctx, tenantID, createdBy, req.Name, req.Description, req.Category, req.ThumbnailURL, req.Components, req.Styles)
}

// Duplicate copies a template the tenant may use into a tenant-owned one
func (s *TemplateService) Duplicate(ctx context.Context, tenantID, id uuid.UUID, createdBy string) (*Template, error) {
	src, err := s.repo.GetAvailable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, tenantID, createdBy,
		src.Name+" (Copy)", src.Description, src.Category, src.ThumbnailURL, src.Components, src.Styles)
}

// Delete removes a tenant-owned template
func (s *TemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}
