package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrAssetNotFound = errors.New("asset not found")

// AssetRepo handles database operations for uploaded assets, all tenant scoped.
type AssetRepo struct {
	db *sqlx.DB
}

func NewAssetRepo(db *sqlx.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

const assetColumns = `id, tenant_id, file_name, original_name, mime_type, size_bytes,
    storage_path, url, uploaded_by, created_at`

// Create inserts an asset record
func (r *AssetRepo) Create(ctx context.Context, a *Asset) (*Asset, error) {
	query := fmt.Sprintf(`
        INSERT INTO assets (tenant_id, file_name, original_name, mime_type, size_bytes,
            storage_path, url, uploaded_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING %s
    `, assetColumns)

	var created Asset
	err := r.db.GetContext(ctx, &created, query,
		a.TenantID, a.FileName, a.OriginalName, a.MimeType, a.SizeBytes,
		a.StoragePath, a.URL, a.UploadedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return &created, nil
}

// ListByTenant retrieves the tenant's assets, newest first
func (r *AssetRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Asset, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM assets
        WHERE tenant_id = $1
        ORDER BY created_at DESC
    `, assetColumns)

	var assets []*Asset
	err := r.db.SelectContext(ctx, &assets, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return assets, nil
}

// GetByID retrieves an asset within the tenant scope
func (r *AssetRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id = $1 AND tenant_id = $2`, assetColumns)

	var a Asset
	err := r.db.GetContext(ctx, &a, query, id, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return &a, nil
}

// Delete removes an asset record within the tenant scope
func (r *AssetRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM assets WHERE id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAssetNotFound
	}

	return nil
}
