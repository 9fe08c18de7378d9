// Package points persists the in-game points document the UI sends over.
package points

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrNoPoints is returned by Load before anything was stored
	ErrNoPoints = errors.New("no in-game points stored")
	// ErrInvalidJSON wraps the parse error for a rejected document
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Store keeps the in-game points file
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store writing to path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Update validates raw as JSON and writes it unchanged
func (s *Store) Update(raw string) error {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create points directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(raw), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// Load returns the stored document
func (s *Store) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoPoints
		}
		return "", err
	}
	return string(data), nil
}
