package propagate

import (
	"context"
	"errors"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
)

// branchState remembers where the user was before a run so teardown can
// put them back.
type branchState struct {
	repoPath string
	original string // empty when HEAD was detached
	head     string // commit hash HEAD pointed at
}

// captureBranchState records the current branch and HEAD commit. A
// detached HEAD is not an error: teardown re-detaches at the same
// commit instead of checking a branch out.
func captureBranchState(ctx context.Context, repoPath string) (branchState, error) {
	head, err := git.RevParse(ctx, repoPath, "HEAD")
	if err != nil {
		return branchState{}, err
	}

	branch, err := git.GetCurrentBranch(ctx, repoPath)
	if errors.Is(err, git.ErrNotOnBranch) {
		log.FromContext(ctx).Println("warning: HEAD is detached, will return to the same commit afterwards")
		return branchState{repoPath: repoPath, head: head}, nil
	}
	if err != nil {
		return branchState{}, err
	}
	return branchState{repoPath: repoPath, original: branch, head: head}, nil
}

// restore checks the original branch out again, or re-detaches at the
// captured commit. Failures are reported to the caller but are expected
// to be downgraded to warnings: a conflicted worktree can block the
// checkout and the user needs the conflict left in place.
func (s branchState) restore(ctx context.Context) error {
	if s.original != "" {
		return git.Checkout(ctx, s.repoPath, s.original)
	}
	if s.head != "" {
		return git.Checkout(ctx, s.repoPath, s.head)
	}
	return nil
}
