package form

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileDraftStore keeps drafts as JSON files under a directory, one file per
// key.
type FileDraftStore struct {
	dir string
}

// NewFileDraftStore creates the draft directory if needed.
func NewFileDraftStore(dir string) (*FileDraftStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}
	return &FileDraftStore{dir: dir}, nil
}

func (s *FileDraftStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the draft for key.
func (s *FileDraftStore) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save writes the draft for key.
func (s *FileDraftStore) Save(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o600)
}

// Clear removes the draft for key. Clearing a missing draft is not an error.
func (s *FileDraftStore) Clear(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
