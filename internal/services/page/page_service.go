package page

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNameRequired  = errors.New("page name is required")
	ErrSlugRequired  = errors.New("page slug is required")
	ErrInvalidStatus = errors.New("page status must be draft or published")
)

// PageService contains business logic for pages
type PageService struct {
	repo *PageRepo
}

func NewPageService(repo *PageRepo) *PageService {
	return &PageService{repo: repo}
}

// List returns all pages of the tenant
func (s *PageService) List(ctx context.Context, tenantID uuid.UUID) ([]*Page, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// Get returns a single page within the tenant scope
func (s *PageService) Get(ctx context.Context, tenantID, id uuid.UUID) (*Page, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// GetPublishedBySlug returns a published page for public rendering
func (s *PageService) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error) {
	return s.repo.GetPublishedBySlug(ctx, tenantID, slug)
}

// GetPublishedHomepage returns the tenant's published homepage
func (s *PageService) GetPublishedHomepage(ctx context.Context, tenantID uuid.UUID) (*Page, error) {
	return s.repo.GetPublishedHomepage(ctx, tenantID)
}

// Create validates and creates a new draft page
func (s *PageService) Create(ctx context.Context, tenantID uuid.UUID, createdBy string, req *CreatePageRequest) (*Page, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.Slug == "" {
		return nil, ErrSlugRequired
	}

	return s.repo.Create(ctx, tenantID, createdBy, req)
}

// Update applies a partial update to a page
func (s *PageService) Update(ctx context.Context, tenantID, id uuid.UUID, updatedBy string, req *UpdatePageRequest) (*Page, error) {
	if req.Status != nil && *req.Status != StatusDraft && *req.Status != StatusPublished {
		return nil, ErrInvalidStatus
	}

	return s.repo.Update(ctx, tenantID, id, updatedBy, req)
}

// Publish marks a page as published
func (s *PageService) Publish(ctx context.Context, tenantID, id uuid.UUID, updatedBy string) (*Page, error) {
	return s.repo.Publish(ctx, tenantID, id, updatedBy)
}

// Delete removes a page
func (s *PageService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}
