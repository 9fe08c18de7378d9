package placement

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoGeometry is returned when no geometry has been saved yet
var ErrNoGeometry = errors.New("geometry file does not exist")

// Store persists window geometry as JSON
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Save writes the geometry, creating the parent directory if needed
func (s *Store) Save(g Geometry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize geometry: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write geometry file: %w", err)
	}
	return nil
}

// Load reads the saved geometry
func (s *Store) Load() (Geometry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Geometry{}, ErrNoGeometry
	}
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to read geometry file: %w", err)
	}

	var g Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return Geometry{}, fmt.Errorf("failed to parse geometry: %w", err)
	}
	return g, nil
}
