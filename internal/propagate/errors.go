package propagate

import (
	"errors"
	"fmt"
)

// Sentinel errors returned before any branch is touched.
var (
	// ErrEmptySelection indicates no commits were chosen.
	ErrEmptySelection = errors.New("no commits selected")

	// ErrEmptyTargets indicates no target branches were chosen.
	ErrEmptyTargets = errors.New("no target branches selected")

	// ErrUserCancelled indicates the user declined the plan.
	ErrUserCancelled = errors.New("cancelled")

	// ErrDirtyWorktree indicates uncommitted changes would be clobbered.
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes, commit or stash them first")
)

// AmbiguousBaseError is returned when the squash base cannot be derived,
// e.g. the oldest selected commit is a root commit.
type AmbiguousBaseError struct {
	Hash string
}

func (e *AmbiguousBaseError) Error() string {
	return fmt.Sprintf("cannot determine squash base for commit %s", e.Hash)
}

// CombineConflictError is returned when replaying the selection onto the
// temporary squash branch conflicts.
type CombineConflictError struct {
	Hash string
	Err  error
}

func (e *CombineConflictError) Error() string {
	return fmt.Sprintf("conflict while combining commit %s: %v", e.Hash, e.Err)
}

func (e *CombineConflictError) Unwrap() error {
	return e.Err
}

// TargetConflictError is returned when a cherry-pick onto a target
// branch conflicts. The repo is left on the target branch with the
// conflict in place so the user can resolve it.
type TargetConflictError struct {
	Branch string
	Hash   string
	Err    error
}

func (e *TargetConflictError) Error() string {
	return fmt.Sprintf("conflict on %s while applying %s: %v", e.Branch, e.Hash, e.Err)
}

func (e *TargetConflictError) Unwrap() error {
	return e.Err
}

// PushError is returned per target when pushing fails. Push failures do
// not abort the run: the commits are already applied locally.
type PushError struct {
	Branch string
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("failed to push %s: %v", e.Branch, e.Err)
}

func (e *PushError) Unwrap() error {
	return e.Err
}
