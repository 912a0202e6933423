package git

import (
	"context"
	"errors"
	"os/exec"
)

// ErrGitNotFound indicates git is missing from PATH.
var ErrGitNotFound = errors.New("git executable not found in PATH, install git first (https://git-scm.com)")

// CheckGit verifies that git can be invoked. Every command runs this
// before touching a repository.
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// IsInsideRepoPath reports whether path lies inside a git worktree.
func IsInsideRepoPath(ctx context.Context, path string) bool {
	return runGit(ctx, path, "rev-parse", "--is-inside-work-tree") == nil
}
