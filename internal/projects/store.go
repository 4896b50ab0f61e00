// Package projects serves the static grants dataset. The dataset is a JSON
// file loaded once at startup; all queries run against the in-memory slice.
package projects

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"grantscope/internal/entities"
)

// Store holds the immutable project list.
type Store struct {
	projects []entities.Project
}

// LoadStore reads the dataset file. The file must be a JSON array of
// projects; an empty array is valid (the dashboard just shows zeros).
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var projects []entities.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	log.Printf("Loaded %d projects from %s", len(projects), path)

	return &Store{projects: projects}, nil
}

// NewStore wraps an already-built slice. Used by tests and seed tooling.
func NewStore(projects []entities.Project) *Store {
	return &Store{projects: projects}
}

// All returns the full project list in dataset order. Callers must not
// mutate the returned slice.
func (s *Store) All() []entities.Project {
	return s.projects
}

// Len returns the dataset size.
func (s *Store) Len() int {
	return len(s.projects)
}
