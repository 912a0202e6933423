package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotOnBranch indicates the repository HEAD is detached.
var ErrNotOnBranch = errors.New("not on a branch (detached HEAD)")

// GetRepoNameFrom extracts the repository name from the origin URL of a repo at the given path
func GetRepoNameFrom(ctx context.Context, repoPath string) (string, error) {
	url, err := GetOriginURL(ctx, repoPath)
	if err != nil {
		return "", fmt.Errorf("not in a git repository or no origin remote: %v", err)
	}

	// Remove .git suffix
	url = strings.TrimSuffix(url, ".git")

	// Extract last part of path (repo name)
	parts := strings.Split(url, "/")
	repoName := parts[len(parts)-1]
	if repoName == "" {
		return "", fmt.Errorf("invalid git origin URL: could not extract repo name from %q", url)
	}

	return repoName, nil
}

// GetRepoDisplayName returns the folder name of the repository.
func GetRepoDisplayName(repoPath string) string {
	return filepath.Base(repoPath)
}

// GetOriginURL gets the origin URL for a repository
func GetOriginURL(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin URL: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetDefaultBranch returns the default branch name for the remote (e.g., "main" or "master")
func GetDefaultBranch(ctx context.Context, repoPath string) string {
	// Try to get default branch from remote HEAD
	output, err := outputGit(ctx, repoPath, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err == nil {
		// Output is like "refs/remotes/origin/main"
		ref := strings.TrimSpace(string(output))
		if parts := strings.Split(ref, "/"); len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	// Fallback: check if origin/main exists
	if runGit(ctx, repoPath, "rev-parse", "--verify", "origin/main") == nil {
		return "main"
	}

	// Fallback: check if origin/master exists
	if runGit(ctx, repoPath, "rev-parse", "--verify", "origin/master") == nil {
		return "master"
	}

	// Last resort default
	return "main"
}

// GetCurrentBranch returns the current branch name.
// Returns ErrNotOnBranch for detached HEAD state.
func GetCurrentBranch(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", ErrNotOnBranch
	}
	return branch, nil
}

// ListBranches returns all local branch names.
func ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	output, err := outputGit(ctx, repoPath, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %v", err)
	}

	var branches []string
	for _, line := range strings.Split(string(output), "\n") {
		if b := strings.TrimSpace(line); b != "" {
			branches = append(branches, b)
		}
	}
	return branches, nil
}

// BranchExists checks if a local branch exists
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	return runGit(ctx, repoPath, "rev-parse", "--verify", "refs/heads/"+branch) == nil
}

// IsDirty returns true if the worktree has uncommitted changes or untracked files
func IsDirty(ctx context.Context, repoPath string) bool {
	output, err := outputGit(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false // Treat error as clean (safe default)
	}
	return strings.TrimSpace(string(output)) != ""
}

// GetUpstreamBranch returns the remote branch name for a local branch.
// Returns empty string if no upstream is configured.
func GetUpstreamBranch(ctx context.Context, repoPath, branch string) string {
	output, err := outputGit(ctx, repoPath, "config", fmt.Sprintf("branch.%s.merge", branch))
	if err != nil {
		return ""
	}
	// Output is like "refs/heads/feature-branch"
	ref := strings.TrimSpace(string(output))
	return strings.TrimPrefix(ref, "refs/heads/")
}

// SetUpstream configures the upstream tracking ref for a branch,
// e.g. "origin/main".
func SetUpstream(ctx context.Context, repoPath, branch, upstream string) error {
	if err := runGit(ctx, repoPath, "branch", "--set-upstream-to="+upstream, branch); err != nil {
		return fmt.Errorf("failed to set upstream of %s: %v", branch, err)
	}
	return nil
}

// Checkout switches to an existing branch.
func Checkout(ctx context.Context, repoPath, branch string) error {
	if err := runGit(ctx, repoPath, "checkout", "--quiet", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %v", branch, err)
	}
	return nil
}

// CreateBranch creates and checks out a new branch at the given start point.
// An empty start point branches from HEAD.
func CreateBranch(ctx context.Context, repoPath, branch, startPoint string) error {
	args := []string{"checkout", "--quiet", "-b", branch}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to create branch %s: %v", branch, err)
	}
	return nil
}

// DeleteLocalBranch deletes a local branch
func DeleteLocalBranch(ctx context.Context, repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, repoPath, "branch", flag, branch); err != nil {
		return fmt.Errorf("failed to delete branch: %v", err)
	}
	return nil
}

// Fetch fetches from origin.
func Fetch(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "fetch", "origin", "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch origin: %v", err)
	}
	return nil
}

// FetchBranch fetches a specific branch from origin
func FetchBranch(ctx context.Context, repoPath, branch string) error {
	if err := runGit(ctx, repoPath, "fetch", "origin", branch, "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch origin/%s: %v", branch, err)
	}
	return nil
}

// Push pushes a branch to origin. Network operations get a bounded
// timeout so a hung remote doesn't stall the whole run.
func Push(ctx context.Context, repoPath, branch string, setUpstream bool, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, "origin", branch)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to push %s: %v", branch, err)
	}
	return nil
}

// RevParse resolves a revision to a full commit hash.
func RevParse(ctx context.Context, repoPath, rev string) (string, error) {
	output, err := outputGit(ctx, repoPath, "rev-parse", "--verify", rev)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %v", rev, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetShortCommitHash returns the short (7 char) commit hash for HEAD
func GetShortCommitHash(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetDiff returns the diff between two revisions using three-dot notation
// (changes on head since it diverged from base).
func GetDiff(ctx context.Context, repoPath, base, head string) (string, error) {
	output, err := outputGit(ctx, repoPath, "diff", fmt.Sprintf("%s...%s", base, head))
	if err != nil {
		return "", fmt.Errorf("failed to diff %s...%s: %v", base, head, err)
	}
	return string(output), nil
}

// GetStagedDiff returns the diff of staged changes.
func GetStagedDiff(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "diff", "--cached")
	if err != nil {
		return "", fmt.Errorf("failed to get staged diff: %v", err)
	}
	return string(output), nil
}

// GetUnstagedDiff returns the diff of unstaged changes.
func GetUnstagedDiff(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "diff")
	if err != nil {
		return "", fmt.Errorf("failed to get unstaged diff: %v", err)
	}
	return string(output), nil
}

// StageAll stages all changes including untracked files.
func StageAll(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %v", err)
	}
	return nil
}

// StagePaths stages the given paths.
func StagePaths(ctx context.Context, repoPath string, paths []string) error {
	args := append([]string{"add", "--"}, paths...)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to stage paths: %v", err)
	}
	return nil
}

// CommitWithMessage creates a commit with the given message.
func CommitWithMessage(ctx context.Context, repoPath, message string) error {
	if err := runGit(ctx, repoPath, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %v", err)
	}
	return nil
}

// GetLastCommitMessage returns the full message of the most recent commit.
func GetLastCommitMessage(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "log", "-1", "--format=%B")
	if err != nil {
		return "", fmt.Errorf("failed to get last commit message: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetLastCommitRelative returns relative time of last commit
func GetLastCommitRelative(ctx context.Context, repoPath string) (string, error) {
	output, err := outputGit(ctx, repoPath, "log", "-1", "--format=%cr")
	if err != nil {
		return "", fmt.Errorf("failed to get last commit: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}
