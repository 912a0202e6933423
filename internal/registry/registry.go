// Package registry manages the tracked-branch registry at ~/.config/gitprop/tracked.json
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Repo represents a repository with branches tracked for scheduled refresh
type Repo struct {
	Path     string   `json:"path"`     // Absolute path to repo
	Name     string   `json:"name"`     // Display name
	Branches []string `json:"branches"` // Local branches kept in sync with their upstreams
}

// Registry holds all tracked repos
type Registry struct {
	Repos []Repo `json:"repos"`
}

// configDir returns the path to ~/.config/gitprop/, creating it if needed
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "gitprop")

	// Auto-create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// registryPath returns the path to ~/.config/gitprop/tracked.json
func registryPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tracked.json"), nil
}

// Load reads the registry from ~/.config/gitprop/tracked.json
// Returns empty registry if file doesn't exist
func Load() (*Registry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Registry{Repos: []Repo{}}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	return &reg, nil
}

// Save writes the registry to ~/.config/gitprop/tracked.json atomically
func (r *Registry) Save() error {
	path, err := registryPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	// Write to temp file first for atomic operation
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // Clean up temp file on failure
		return fmt.Errorf("save registry: %w", err)
	}

	return nil
}

// AddBranch tracks a branch for the repo at path, creating the repo
// entry if needed. Tracking an already-tracked branch is a no-op.
func (r *Registry) AddBranch(path, name, branch string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	for i := range r.Repos {
		if r.Repos[i].Path != absPath {
			continue
		}
		if slices.Contains(r.Repos[i].Branches, branch) {
			return nil // Already tracked
		}
		r.Repos[i].Branches = append(r.Repos[i].Branches, branch)
		slices.Sort(r.Repos[i].Branches)
		return nil
	}

	r.Repos = append(r.Repos, Repo{
		Path:     absPath,
		Name:     name,
		Branches: []string{branch},
	})
	return nil
}

// RemoveBranch stops tracking a branch. Removing the last branch of a
// repo drops the repo entry entirely.
func (r *Registry) RemoveBranch(path, branch string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	for i := range r.Repos {
		if r.Repos[i].Path != absPath {
			continue
		}
		idx := slices.Index(r.Repos[i].Branches, branch)
		if idx == -1 {
			return fmt.Errorf("branch not tracked: %s", branch)
		}
		r.Repos[i].Branches = slices.Delete(r.Repos[i].Branches, idx, idx+1)
		if len(r.Repos[i].Branches) == 0 {
			r.Repos = slices.Delete(r.Repos, i, i+1)
		}
		return nil
	}
	return fmt.Errorf("repo not tracked: %s", absPath)
}

// FindByPath looks up a repo by path
func (r *Registry) FindByPath(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	for i := range r.Repos {
		if r.Repos[i].Path == absPath {
			return &r.Repos[i], nil
		}
	}
	return nil, fmt.Errorf("repo not tracked: %s", path)
}

// HasBranch checks if a branch is tracked for the repo
func (repo *Repo) HasBranch(branch string) bool {
	return slices.Contains(repo.Branches, branch)
}

// String returns a display string for the repo
func (repo *Repo) String() string {
	if len(repo.Branches) > 0 {
		return fmt.Sprintf("%s (%s)", repo.Name, strings.Join(repo.Branches, ", "))
	}
	return repo.Name
}
