package asset

import (
	"time"

	"github.com/google/uuid"
)

// Asset is an uploaded media file owned by a tenant.
type Asset struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	OriginalName string    `db:"original_name" json:"original_name"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	SizeBytes    int64     `db:"size_bytes" json:"size_bytes"`
	StoragePath  string    `db:"storage_path" json:"-"`
	URL          string    `db:"url" json:"url"`
	UploadedBy   *string   `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UploadRequest carries an uploaded file from the handler to the service
type UploadRequest struct {
	OriginalName string
	MimeType     string
	Data         []byte
}
