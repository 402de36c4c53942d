package speaker

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrNameRequired = errors.New("speaker name is required")

// SpeakerService contains business logic for speakers
type SpeakerService struct {
	repo *SpeakerRepo
}

func NewSpeakerService(repo *SpeakerRepo) *SpeakerService {
	return &SpeakerService{repo: repo}
}

// List returns the tenant's speakers, optionally only featured ones
func (s *SpeakerService) List(ctx context.Context, tenantID uuid.UUID, featuredOnly bool) ([]*Speaker, error) {
	return s.repo.ListByTenant(ctx, tenantID, featuredOnly)
}

// Get returns a single speaker within the tenant scope
func (s *SpeakerService) Get(ctx context.Context, tenantID, id uuid.UUID) (*Speaker, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// Create validates and creates a new speaker
func (s *SpeakerService) Create(ctx context.Context, tenantID uuid.UUID, req *CreateSpeakerRequest) (*Speaker, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}

	return s.repo.Create(ctx, tenantID, req)
}

// Update applies a partial update to a speaker
func (s *SpeakerService) Update(ctx context.Context, tenantID, id uuid.UUID, req *UpdateSpeakerRequest) (*Speaker, error) {
	return s.repo.Update(ctx, tenantID, id, req)
}

// Delete removes a speaker
func (s *SpeakerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}
