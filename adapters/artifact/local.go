// Package artifact holds artifact store implementations
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sheetmark/ports"
)

// LocalStore writes artifacts to a directory on disk. It stands in for
// the cloud bucket a hosted deployment would use.
type LocalStore struct {
	dir string
}

var _ ports.ArtifactStore = (*LocalStore)(nil)

// NewLocalStore creates a local artifact store rooted at dir
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// PutArtifact writes one artifact and returns its path
func (s *LocalStore) PutArtifact(_ context.Context, name, _ string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}
	return path, nil
}
