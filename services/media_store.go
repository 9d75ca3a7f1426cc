package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MediaStore is the binary-object collaborator for audio/video notes.
// Transcoding and capture live outside this system; the store only moves
// bytes.
type MediaStore interface {
	Put(path string, data []byte) error
	Remove(path string) error
}

// DiskMediaStore keeps media objects under a root directory, one file per
// note at <userID>/<entryID>.<ext>.
type DiskMediaStore struct {
	Root string
}

func NewDiskMediaStore(root string) *DiskMediaStore {
	return &DiskMediaStore{Root: root}
}

// MediaPath builds the canonical storage path for an entry's media note.
func MediaPath(userID, entryID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", userID, entryID, ext)
}

func (s *DiskMediaStore) resolve(path string) (string, error) {
	// Reject traversal outside the root
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media path %q", path)
	}
	return filepath.Join(s.Root, clean), nil
}

func (s *DiskMediaStore) Put(path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *DiskMediaStore) Remove(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
