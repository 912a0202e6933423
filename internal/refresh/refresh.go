// Package refresh recreates tracked local branches from their upstreams.
//
// A refreshed branch is deleted and recut at origin's tip rather than
// merged or rebased, so local branches that only mirror remote work
// never accumulate drift. Branches without an upstream and repos with
// uncommitted changes are skipped.
package refresh

import (
	"context"
	"errors"
	"fmt"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
)

// Outcome classifies what happened to a single branch.
type Outcome int

const (
	OutcomeRefreshed Outcome = iota
	OutcomeSkippedNoUpstream
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeSkippedNoUpstream:
		return "skipped (no upstream)"
	default:
		return "failed"
	}
}

// BranchResult is the outcome for one branch.
type BranchResult struct {
	Branch  string
	Outcome Outcome
	Err     error
}

// Summary reports a refresh run over one repository.
type Summary struct {
	RepoPath string
	Results  []BranchResult
}

// Refreshed returns how many branches were recut.
func (s *Summary) Refreshed() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == OutcomeRefreshed {
			n++
		}
	}
	return n
}

// Refresh recuts each branch at its upstream's tip. The repo must be
// clean: recreating a checked-out branch moves the worktree. The
// original checkout is restored afterwards.
func Refresh(ctx context.Context, repoPath string, branches []string) (*Summary, error) {
	logger := log.FromContext(ctx)
	summary := &Summary{RepoPath: repoPath}

	if len(branches) == 0 {
		return summary, nil
	}
	if git.IsDirty(ctx, repoPath) {
		return nil, fmt.Errorf("repo %s has uncommitted changes, skipping refresh", repoPath)
	}

	if err := git.Fetch(ctx, repoPath); err != nil {
		return nil, err
	}

	original, err := git.GetCurrentBranch(ctx, repoPath)
	if errors.Is(err, git.ErrNotOnBranch) {
		original = "" // detached HEAD, nothing to restore
	} else if err != nil {
		return nil, err
	}
	defer func() {
		if original != "" && git.BranchExists(ctx, repoPath, original) {
			if err := git.Checkout(ctx, repoPath, original); err != nil {
				logger.Printf("warning: could not restore branch %s: %v\n", original, err)
			}
		}
	}()

	for _, branch := range branches {
		result := BranchResult{Branch: branch}

		switch {
		case !git.BranchExists(ctx, repoPath, branch):
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("branch %q does not exist", branch)
		default:
			upstream := git.GetUpstreamBranch(ctx, repoPath, branch)
			if upstream == "" {
				result.Outcome = OutcomeSkippedNoUpstream
			} else if err := recutBranch(ctx, repoPath, branch, upstream); err != nil {
				result.Outcome = OutcomeFailed
				result.Err = err
			} else {
				result.Outcome = OutcomeRefreshed
				logger.Printf("refreshed %s from origin/%s\n", branch, upstream)
			}
		}

		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

// recutBranch deletes the branch and recreates it at origin's tip. A
// scratch branch holds the checkout in between so this works even for
// the branch that is currently checked out.
func recutBranch(ctx context.Context, repoPath, branch, upstream string) error {
	remote := "origin/" + upstream

	temp := git.TempBranchName("refresh")
	if err := git.CreateBranch(ctx, repoPath, temp, remote); err != nil {
		return err
	}
	defer func() {
		_ = git.DeleteLocalBranch(ctx, repoPath, temp, true)
	}()

	if err := git.DeleteLocalBranch(ctx, repoPath, branch, true); err != nil {
		return err
	}
	if err := git.CreateBranch(ctx, repoPath, branch, remote); err != nil {
		return err
	}

	// Re-attach the upstream lost with the old branch
	if err := git.SetUpstream(ctx, repoPath, branch, remote); err != nil {
		return err
	}
	return nil
}
