package forge

import (
	"context"
)

// CreatePRParams contains parameters for creating a PR.
type CreatePRParams struct {
	Title string
	Body  string
	Base  string // base branch (empty = repo default)
	Head  string // head/source branch
	Draft bool
}

// CreatePRResult contains the result of creating a PR.
type CreatePRResult struct {
	Number int
	URL    string
}

// ExistingPR describes an already-open PR for a branch.
type ExistingPR struct {
	Number int
	URL    string
	State  string
}

// Forge represents a git hosting service.
type Forge interface {
	// Name returns the forge name ("github")
	Name() string

	// Check verifies the CLI is installed and authenticated
	Check(ctx context.Context) error

	// FindPR returns the open PR for a branch, or nil if none exists
	FindPR(ctx context.Context, repoPath, branch string) (*ExistingPR, error)

	// CreatePR creates a new PR from the given head branch
	CreatePR(ctx context.Context, repoPath string, params CreatePRParams) (*CreatePRResult, error)
}
