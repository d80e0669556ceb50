// Package schemefile supplies mark schemes from YAML files on disk, with
// the compiled-in SALES_ANALYSIS scheme as the fallback default.
package schemefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheetmark/domain/core"
	"sheetmark/domain/scheme"
	"sheetmark/ports"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store reads mark schemes from a directory of YAML files, one scheme
// per file, named "<scheme id>.yaml".
type Store struct {
	dir      string
	validate *validator.Validate
}

var _ ports.SchemeStore = (*Store)(nil)

// NewStore creates a scheme store over a directory
func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		validate: validator.New(),
	}
}

// GetScheme loads and validates one scheme by ID. The compiled-in
// default is served without touching the filesystem.
func (s *Store) GetScheme(_ context.Context, id core.SchemeID) (scheme.MarkScheme, error) {
	builtin := scheme.SalesAnalysis()
	if id == builtin.ID {
		return builtin, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, string(id)+".yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return scheme.MarkScheme{}, fmt.Errorf("%w: %s", core.ErrSchemeNotFound, id)
		}
		return scheme.MarkScheme{}, fmt.Errorf("read scheme %s: %w", id, err)
	}
	return s.Parse(data)
}

// ListSchemes returns every scheme in the directory plus the compiled-in
// default. Unparseable files are skipped.
func (s *Store) ListSchemes(ctx context.Context) ([]scheme.MarkScheme, error) {
	schemes := []scheme.MarkScheme{scheme.SalesAnalysis()}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return schemes, nil
		}
		return nil, fmt.Errorf("read schemes dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		if m, err := s.Parse(data); err == nil {
			schemes = append(schemes, m)
		}
	}
	return schemes, nil
}

// Parse decodes and validates a YAML mark scheme
func (s *Store) Parse(data []byte) (scheme.MarkScheme, error) {
	var m scheme.MarkScheme
	if err := yaml.Unmarshal(data, &m); err != nil {
		return scheme.MarkScheme{}, fmt.Errorf("%w: %v", core.ErrSchemeInvalid, err)
	}
	if err := s.validate.Struct(m); err != nil {
		return scheme.MarkScheme{}, fmt.Errorf("%w: %v", core.ErrSchemeInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return scheme.MarkScheme{}, err
	}
	return m, nil
}
