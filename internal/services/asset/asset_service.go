package asset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/services/asset/disk_storage"
)

// MaxUploadSize caps uploads at 10 MiB.
const MaxUploadSize = 10 << 20

var (
	ErrFileRequired    = errors.New("file is required")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
	"application/pdf": {},
}

// AssetService contains business logic for uploaded assets
type AssetService struct {
	repo    *AssetRepo
	storage *disk_storage.DiskStorage
	baseURL string
}

func NewAssetService(repo *AssetRepo, storage *disk_storage.DiskStorage, baseURL string) *AssetService {
	return &AssetService{
		repo:    repo,
		storage: storage,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload validates, stores and records an uploaded file
func (s *AssetService) Upload(ctx context.Context, tenantID uuid.UUID, uploadedBy string, req *UploadRequest) (*Asset, error) {
	if len(req.Data) == 0 {
		return nil, ErrFileRequired
	}
	if len(req.Data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if _, ok := allowedMimeTypes[req.MimeType]; !ok {
		return nil, ErrUnsupportedType
	}

	// Stored name is a fresh uuid; the original name survives only as metadata.
	ext := filepath.Ext(req.OriginalName)
	fileName := uuid.NewString() + strings.ToLower(ext)

	storagePath, err := s.storage.Save(tenantID.String(), fileName, req.Data)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Asset{
		TenantID:     tenantID,
		FileName:     fileName,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		SizeBytes:    int64(len(req.Data)),
		StoragePath:  storagePath,
		URL:          fmt.Sprintf("%s/%s/%s", s.baseURL, tenantID, fileName),
		UploadedBy:   &uploadedBy,
	})
	if err != nil {
		// Roll back the file so storage does not leak orphans
		_ = s.storage.Delete(storagePath)
		return nil, err
	}

	return created, nil
}

// List returns the tenant's assets
func (s *AssetService) List(ctx context.Context, tenantID uuid.UUID) ([]*Asset, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// Delete removes the asset record and its stored file
func (s *AssetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	return s.storage.Delete(a.StoragePath)
}

// FilePath resolves the absolute path of a stored asset for serving
func (s *AssetService) FilePath(storagePath string) (string, error) {
	return s.storage.Open(storagePath)
}
