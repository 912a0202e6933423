package propagate

import (
	"context"
	"fmt"
	"time"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
)

// Prompter resolves the interactive decisions a run needs. The CLI
// backs it with terminal prompts; tests supply canned answers. All
// prompting happens before the first branch is touched.
type Prompter interface {
	// ChooseMainline picks which parent of a merge commit to replay
	// against. Returns a 1-based parent index.
	ChooseMainline(c git.Commit) (int, error)

	// EditCombinedMessage lets the user adjust the squashed commit
	// message. Returning ErrUserCancelled aborts the run.
	EditCombinedMessage(suggested string) (string, error)

	// ConfirmPlan shows the plan and asks for a go-ahead.
	ConfirmPlan(p Plan) (bool, error)
}

// Plan describes what a run will do, shown before confirmation.
type Plan struct {
	Commits []git.Commit // application order, oldest first
	Targets []string
	Combine bool
	Push    bool
}

// Status classifies the outcome per target branch.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusNotAttempted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "not attempted"
	}
}

// TargetStatus is the per-branch outcome of a run.
type TargetStatus struct {
	Branch  string
	Status  Status
	Err     error
	Pushed  bool
	PushErr error // non-fatal, commits are applied locally
}

// Result summarizes a propagation run.
type Result struct {
	Targets      []TargetStatus
	CombinedHash string // set when the selection was squashed
}

// Failed reports whether any target failed.
func (r *Result) Failed() bool {
	for _, t := range r.Targets {
		if t.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Options configures a propagation run.
type Options struct {
	RepoPath    string
	Selection   []git.Commit // as listed, newest first
	Targets     []string
	Combine     bool
	Push        bool
	PushTimeout time.Duration
}

// Engine runs propagations. It is stateless between runs.
type Engine struct {
	prompter Prompter
}

// New creates an engine using the given prompter.
func New(p Prompter) *Engine {
	return &Engine{prompter: p}
}

// pick is one cherry-pick to perform on each target.
type pick struct {
	hash     string
	mainline int
}

// Propagate replays the selected commits onto every target branch.
//
// Nothing is mutated until every interactive decision is resolved and
// the plan is confirmed. After that the run holds the repo lock, works
// through the targets in order and stops at the first failure; the
// remaining targets are reported as not attempted. Teardown always
// deletes the scratch branch and tries to restore the original
// checkout, downgrading failures there to warnings.
func (e *Engine) Propagate(ctx context.Context, opts Options) (*Result, error) {
	logger := log.FromContext(ctx)

	if len(opts.Selection) == 0 {
		return nil, ErrEmptySelection
	}
	if len(opts.Targets) == 0 {
		return nil, ErrEmptyTargets
	}
	for _, target := range opts.Targets {
		if !git.BranchExists(ctx, opts.RepoPath, target) {
			return nil, fmt.Errorf("target branch %q does not exist", target)
		}
	}
	if git.IsDirty(ctx, opts.RepoPath) {
		return nil, ErrDirtyWorktree
	}

	// Resolve every merge commit's mainline up front so no prompt
	// interrupts the run once branches start moving.
	mainlines := make(map[string]int)
	for _, c := range opts.Selection {
		if !c.IsMerge() {
			continue
		}
		m, err := e.prompter.ChooseMainline(c)
		if err != nil {
			return nil, err
		}
		if m < 1 || m > len(c.Parents) {
			return nil, fmt.Errorf("invalid mainline %d for commit %s (%d parents)", m, c.ShortHash(), len(c.Parents))
		}
		mainlines[c.Hash] = m
	}

	ordered := ReplayOrder(opts.Selection)

	combining := opts.Combine && len(ordered) > 1
	var message string
	if combining {
		var err error
		message, err = e.prompter.EditCombinedMessage(DefaultCombinedMessage(ordered))
		if err != nil {
			return nil, err
		}
	}

	ok, err := e.prompter.ConfirmPlan(Plan{
		Commits: ordered,
		Targets: opts.Targets,
		Combine: combining,
		Push:    opts.Push,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserCancelled
	}

	// One run per repo at a time
	lock := git.NewRepoLock(opts.RepoPath)
	if err := lock.TryLock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	state, err := captureBranchState(ctx, opts.RepoPath)
	if err != nil {
		return nil, err
	}

	var tempBranch string
	defer func() {
		if tempBranch != "" {
			if err := git.DeleteLocalBranch(ctx, opts.RepoPath, tempBranch, true); err != nil {
				logger.Printf("warning: could not delete temporary branch %s: %v\n", tempBranch, err)
			}
		}
	}()
	defer func() {
		if err := state.restore(ctx); err != nil {
			logger.Printf("warning: could not restore branch %s: %v\n", state.original, err)
		}
	}()

	result := &Result{}

	picks := make([]pick, 0, len(ordered))
	if combining {
		tempBranch = git.TempBranchName("combine")
		combinedHash, err := combine(ctx, opts.RepoPath, tempBranch, ordered, mainlines, message)
		if err != nil {
			return nil, err
		}
		result.CombinedHash = combinedHash
		picks = append(picks, pick{hash: combinedHash})
	} else {
		for _, c := range ordered {
			picks = append(picks, pick{hash: c.Hash, mainline: mainlines[c.Hash]})
		}
	}

	result.Targets = make([]TargetStatus, len(opts.Targets))
	failed := false
	for i, target := range opts.Targets {
		result.Targets[i] = TargetStatus{Branch: target, Status: StatusNotAttempted}
		if failed {
			continue
		}

		if err := applyToTarget(ctx, opts.RepoPath, target, picks); err != nil {
			logger.Printf("🛑 failed on %s: %v\n", target, err)
			result.Targets[i].Status = StatusFailed
			result.Targets[i].Err = err
			failed = true
			continue
		}

		result.Targets[i].Status = StatusSucceeded
		logger.Printf("✅ propagated to %s\n", target)

		if opts.Push {
			if err := git.Push(ctx, opts.RepoPath, target, false, opts.PushTimeout); err != nil {
				pushErr := &PushError{Branch: target, Err: err}
				result.Targets[i].PushErr = pushErr
				logger.Printf("warning: %v\n", pushErr)
				continue
			}
			result.Targets[i].Pushed = true
		}
	}

	return result, nil
}

// applyToTarget checks the target out and replays the picks in order.
// On conflict the repo is left on the target branch with the conflict
// in place; the deferred restore may then fail, which is expected.
func applyToTarget(ctx context.Context, repoPath, target string, picks []pick) error {
	if err := git.Checkout(ctx, repoPath, target); err != nil {
		return err
	}
	for _, p := range picks {
		if err := git.CherryPick(ctx, repoPath, p.hash, p.mainline); err != nil {
			return &TargetConflictError{Branch: target, Hash: p.hash, Err: err}
		}
	}
	return nil
}
