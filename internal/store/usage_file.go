// Package store persists budget usage between runs, so a restart cannot
// double-spend a provider quota. Two backends: a JSON file for the default
// single-board deployment, and PostgreSQL for shared installs.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wproctor/flightsign/pkg/budget"
)

// FileStore keeps usage in a single JSON file, rewritten atomically on
// every save.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. The parent directory is
// created if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("usage file path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create usage directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load implements budget.Store. A missing file is a fresh install, not an
// error.
func (s *FileStore) Load() (budget.Usage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return budget.Usage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read usage file: %w", err)
	}

	var usage budget.Usage
	if err := json.Unmarshal(data, &usage); err != nil {
		return nil, fmt.Errorf("failed to parse usage file %s: %w", s.path, err)
	}
	return usage, nil
}

// Save implements budget.Store. The file is written to a temp sibling and
// renamed, so a crash mid-save never leaves a torn file.
func (s *FileStore) Save(usage budget.Usage) error {
	data, err := json.MarshalIndent(usage, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode usage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write usage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace usage file: %w", err)
	}
	return nil
}
