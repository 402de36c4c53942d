package disk_storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage stores uploaded asset files on the local filesystem, one
// directory per tenant.
type DiskStorage struct {
	Path string
}

func NewDiskStorage(path string) *DiskStorage {
	return &DiskStorage{
		Path: path,
	}
}

// Save writes the file under the tenant's directory and returns the storage
// path relative to the root.
func (s *DiskStorage) Save(tenantDir, fileName string, data []byte) (string, error) {
	cleanName := filepath.Clean(fileName)
	if strings.Contains(cleanName, "..") || strings.ContainsAny(cleanName, "/\\") {
		return "", fmt.Errorf("invalid file name: %s", fileName)
	}

	dir := filepath.Join(s.Path, tenantDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}

	filePath := filepath.Join(dir, cleanName)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	return filepath.Join(tenantDir, cleanName), nil
}

// Delete removes a stored file. A missing file is not an error; the database
// row is the source of truth.
func (s *DiskStorage) Delete(storagePath string) error {
	cleanPath := filepath.Clean(storagePath)
	if strings.HasPrefix(cleanPath, "..") || filepath.IsAbs(cleanPath) {
		return fmt.Errorf("invalid storage path: %s", storagePath)
	}

	fullPath := filepath.Join(s.Path, cleanPath)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset file: %w", err)
	}

	return nil
}

// Open returns the absolute path of a stored file for serving.
func (s *DiskStorage) Open(storagePath string) (string, error) {
	cleanPath := filepath.Clean(storagePath)
	if strings.HasPrefix(cleanPath, "..") || filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("invalid storage path: %s", storagePath)
	}

	fullPath := filepath.Join(s.Path, cleanPath)
	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("asset file not found: %w", err)
	}

	return fullPath, nil
}
