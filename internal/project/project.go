// Package project persists nesting runs as JSON so layouts can be reloaded
// and re-exported without re-running the evolution.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

// Project ties a nesting run together for save/load.
type Project struct {
	Name   string             `json:"name"`
	Inputs []string           `json:"inputs"`
	Config model.NestConfig   `json:"config"`
	Bin    model.Bin          `json:"bin"`
	Parts  []model.Part       `json:"parts"`
	Result *engine.NestResult `json:"result,omitempty"`
}

// New returns an empty project with default settings.
func New() Project {
	return Project{
		Name:   "Untitled",
		Config: model.DefaultConfig(),
	}
}

// Save writes the project to a JSON file, creating parent directories as
// needed.
func Save(path string, p Project) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project from a JSON file.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, err
	}
	return p, nil
}
