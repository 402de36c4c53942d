package disk_storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	s := NewDiskStorage(t.TempDir())

	storagePath, err := s.Save("tenant-1", "logo.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("tenant-1", "logo.png"), storagePath)

	fullPath, err := s.Open(storagePath)
	require.NoError(t, err)

	data, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveRejectsTraversal(t *testing.T) {
	s := NewDiskStorage(t.TempDir())

	for _, name := range []string{"../escape.png", "a/b.png", `a\b.png`, ".."} {
		_, err := s.Save("tenant-1", name, []byte("x"))
		assert.Error(t, err, "file name %q must be rejected", name)
	}
}

func TestDelete(t *testing.T) {
	s := NewDiskStorage(t.TempDir())

	storagePath, err := s.Save("tenant-1", "doc.pdf", []byte("pdf"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(storagePath))

	_, err = s.Open(storagePath)
	assert.Error(t, err)

	// Deleting again is not an error
	assert.NoError(t, s.Delete(storagePath))
}

func TestDeleteRejectsEscapingPaths(t *testing.T) {
	s := NewDiskStorage(t.TempDir())

	assert.Error(t, s.Delete("../outside"))
	assert.Error(t, s.Delete("/etc/passwd"))
}
