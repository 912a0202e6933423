package propagate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miketan/gitprop/internal/cmd"
	"github.com/miketan/gitprop/internal/git"
)

// stubPrompter answers every decision without a terminal.
type stubPrompter struct {
	mainline      int
	mainlineErr   error
	confirm       bool
	message       string // empty keeps the suggested message
	mainlineCalls []string
}

func (s *stubPrompter) ChooseMainline(c git.Commit) (int, error) {
	s.mainlineCalls = append(s.mainlineCalls, c.Hash)
	return s.mainline, s.mainlineErr
}

func (s *stubPrompter) EditCombinedMessage(suggested string) (string, error) {
	if s.message != "" {
		return s.message, nil
	}
	return suggested, nil
}

func (s *stubPrompter) ConfirmPlan(Plan) (bool, error) {
	return s.confirm, nil
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	if err := cmd.RunContext(context.Background(), dir, "git", args...); err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
}

func gitOut(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := cmd.OutputContext(context.Background(), dir, "git", args...)
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}

// setupRepo creates a repo on main with one initial commit.
func setupRepo(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	repo := filepath.Join(dir, "repo")

	gitRun(t, "", "init", "-b", "main", repo)
	gitRun(t, repo, "config", "user.email", "test@test.com")
	gitRun(t, repo, "config", "user.name", "Test User")
	gitRun(t, repo, "config", "commit.gpgsign", "false")

	writeAndCommit(t, repo, "README.md", "# test\n", "Initial commit")
	return repo
}

func writeAndCommit(t *testing.T, repo, name, content, message string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(repo, name), []byte(content), 0644))
	gitRun(t, repo, "add", name)
	gitRun(t, repo, "commit", "-m", message)
	return gitOut(t, repo, "rev-parse", "HEAD")
}

// selection returns the n newest commits on the current branch.
func selection(t *testing.T, repo string, n int) []git.Commit {
	t.Helper()
	commits, err := git.ListCommits(context.Background(), repo, "", n)
	require.NoError(t, err)
	require.Len(t, commits, n)
	return commits
}

func subjects(t *testing.T, repo, branch string) []string {
	t.Helper()
	out := gitOut(t, repo, "log", "--pretty=format:%s", branch)
	return strings.Split(out, "\n")
}

func TestPropagate_SingleCommitMultipleTargets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	// Two targets cut at the initial commit
	gitRun(t, repo, "branch", "target-1")
	gitRun(t, repo, "branch", "target-2")

	gitRun(t, repo, "checkout", "-b", "source")
	writeAndCommit(t, repo, "feature.txt", "feature\n", "Add feature")

	eng := New(&stubPrompter{confirm: true})
	result, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 1),
		Targets:   []string{"target-1", "target-2"},
	})
	require.NoError(t, err)
	require.Len(t, result.Targets, 2)

	for _, ts := range result.Targets {
		assert.Equal(t, StatusSucceeded, ts.Status, ts.Branch)
		assert.Contains(t, subjects(t, repo, ts.Branch), "Add feature")
	}

	// Original branch is restored
	branch, err := git.GetCurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "source", branch)
}

func TestPropagate_ReplaysOldestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")
	gitRun(t, repo, "checkout", "-b", "source")

	// The second commit edits the file the first one created, so a
	// wrong replay order cannot apply cleanly.
	writeAndCommit(t, repo, "stack.txt", "one\n", "First change")
	writeAndCommit(t, repo, "stack.txt", "one\ntwo\n", "Second change")

	eng := New(&stubPrompter{confirm: true})
	result, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 2), // newest first
		Targets:   []string{"target"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Targets[0].Status)

	got := subjects(t, repo, "target")
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "Second change", got[0])
	assert.Equal(t, "First change", got[1])
}

func TestPropagate_CombineSquashesSelection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")
	gitRun(t, repo, "checkout", "-b", "source")
	writeAndCommit(t, repo, "a.txt", "a\n", "Change A")
	writeAndCommit(t, repo, "b.txt", "b\n", "Change B")

	eng := New(&stubPrompter{confirm: true, message: "Squashed work"})
	result, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 2),
		Targets:   []string{"target"},
		Combine:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.CombinedHash)
	assert.Equal(t, StatusSucceeded, result.Targets[0].Status)

	// Target gained exactly one commit with the edited message
	got := subjects(t, repo, "target")
	require.Len(t, got, 2)
	assert.Equal(t, "Squashed work", got[0])

	// Combining must not lose content: target's tree matches source's
	assert.Empty(t, gitOut(t, repo, "diff", "source", "target"))

	// The scratch branch is gone
	branches, err := git.ListBranches(ctx, repo)
	require.NoError(t, err)
	for _, b := range branches {
		assert.NotContains(t, b, "combine-")
	}

	branch, err := git.GetCurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "source", branch)
}

func TestPropagate_CombineConflictTearsDownScratchBranch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")
	gitRun(t, repo, "checkout", "-b", "source")

	// Three stacked edits to the same line. Selecting the first and
	// third while skipping the middle one makes the squash replay
	// conflict, since the third edit builds on content the scratch
	// branch never sees.
	writeAndCommit(t, repo, "value.txt", "one\n", "Set one")
	writeAndCommit(t, repo, "value.txt", "two\n", "Set two")
	writeAndCommit(t, repo, "value.txt", "three\n", "Set three")

	targetBefore := gitOut(t, repo, "rev-parse", "target")

	all := selection(t, repo, 3)
	eng := New(&stubPrompter{confirm: true, message: "Squashed"})
	_, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: []git.Commit{all[0], all[2]},
		Targets:   []string{"target"},
		Combine:   true,
	})

	var conflictErr *CombineConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, all[0].Hash, conflictErr.Hash)

	// The scratch branch is cleaned up and the checkout restored
	branches, err := git.ListBranches(ctx, repo)
	require.NoError(t, err)
	for _, b := range branches {
		assert.NotContains(t, b, "combine-")
	}
	branch, err := git.GetCurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "source", branch)
	assert.False(t, git.IsDirty(ctx, repo))

	// No target moved
	assert.Equal(t, targetBefore, gitOut(t, repo, "rev-parse", "target"))
}

func TestPropagate_MergeCommitUsesChosenMainline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")

	// Build a merge commit on source
	gitRun(t, repo, "checkout", "-b", "side")
	writeAndCommit(t, repo, "side.txt", "side\n", "Side change")
	gitRun(t, repo, "checkout", "-b", "source", "main")
	gitRun(t, repo, "merge", "--no-ff", "-m", "Merge side work", "side")

	prompter := &stubPrompter{confirm: true, mainline: 1}
	eng := New(prompter)
	result, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 1),
		Targets:   []string{"target"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Targets[0].Status)

	// The mainline decision was requested exactly once, before mutation
	require.Len(t, prompter.mainlineCalls, 1)

	// The merged file arrived on the target
	gitRun(t, repo, "checkout", "target")
	_, statErr := os.Stat(filepath.Join(repo, "side.txt"))
	assert.NoError(t, statErr)
}

func TestPropagate_FailFastMarksRemainingNotAttempted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	// target-ok is clean; target-conflict diverges on the same file
	gitRun(t, repo, "branch", "target-ok")
	gitRun(t, repo, "checkout", "-b", "target-conflict")
	writeAndCommit(t, repo, "shared.txt", "conflicting\n", "Diverging change")
	gitRun(t, repo, "checkout", "-b", "target-after", "main")

	gitRun(t, repo, "checkout", "-b", "source", "main")
	writeAndCommit(t, repo, "shared.txt", "original\n", "Shared change")

	eng := New(&stubPrompter{confirm: true})
	result, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 1),
		Targets:   []string{"target-ok", "target-conflict", "target-after"},
	})
	require.NoError(t, err)
	require.Len(t, result.Targets, 3)

	assert.Equal(t, StatusSucceeded, result.Targets[0].Status)

	assert.Equal(t, StatusFailed, result.Targets[1].Status)
	var conflictErr *TargetConflictError
	require.ErrorAs(t, result.Targets[1].Err, &conflictErr)
	assert.Equal(t, "target-conflict", conflictErr.Branch)

	assert.Equal(t, StatusNotAttempted, result.Targets[2].Status)
	assert.True(t, result.Failed())

	// The conflict is left in place for the user to resolve
	branch, err := git.GetCurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "target-conflict", branch)
	assert.True(t, git.IsDirty(ctx, repo))
}

func TestPropagate_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)
	eng := New(&stubPrompter{confirm: true})

	t.Run("empty selection", func(t *testing.T) {
		_, err := eng.Propagate(ctx, Options{RepoPath: repo, Targets: []string{"main"}})
		assert.ErrorIs(t, err, ErrEmptySelection)
	})

	t.Run("empty targets", func(t *testing.T) {
		_, err := eng.Propagate(ctx, Options{
			RepoPath:  repo,
			Selection: selection(t, repo, 1),
		})
		assert.ErrorIs(t, err, ErrEmptyTargets)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := eng.Propagate(ctx, Options{
			RepoPath:  repo,
			Selection: selection(t, repo, 1),
			Targets:   []string{"no-such-branch"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-branch")
	})
}

func TestPropagate_DirtyWorktree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)
	gitRun(t, repo, "branch", "target")

	sel := selection(t, repo, 1)
	require.NoError(t, os.WriteFile(filepath.Join(repo, "wip.txt"), []byte("wip"), 0644))

	eng := New(&stubPrompter{confirm: true})
	_, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: sel,
		Targets:   []string{"target"},
	})
	assert.ErrorIs(t, err, ErrDirtyWorktree)
}

func TestPropagate_DeclinedPlanTouchesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")
	gitRun(t, repo, "checkout", "-b", "source")
	writeAndCommit(t, repo, "f.txt", "f\n", "Feature")

	before := gitOut(t, repo, "rev-parse", "target")

	eng := New(&stubPrompter{confirm: false})
	_, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 1),
		Targets:   []string{"target"},
	})
	assert.ErrorIs(t, err, ErrUserCancelled)

	assert.Equal(t, before, gitOut(t, repo, "rev-parse", "target"))
	branch, err := git.GetCurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "source", branch)
}

func TestPropagate_DeclinedMainlineTouchesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")

	// A merge commit on source forces the mainline question
	gitRun(t, repo, "checkout", "-b", "side")
	writeAndCommit(t, repo, "side.txt", "side\n", "Side change")
	gitRun(t, repo, "checkout", "-b", "source", "main")
	gitRun(t, repo, "merge", "--no-ff", "-m", "Merge side work", "side")

	targetBefore := gitOut(t, repo, "rev-parse", "target")
	branchesBefore := gitOut(t, repo, "branch", "--list")

	eng := New(&stubPrompter{confirm: true, mainlineErr: ErrUserCancelled})
	_, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 1),
		Targets:   []string{"target"},
	})
	assert.ErrorIs(t, err, ErrUserCancelled)

	// Declining the merge question aborts before any mutation
	assert.Equal(t, targetBefore, gitOut(t, repo, "rev-parse", "target"))
	assert.Equal(t, branchesBefore, gitOut(t, repo, "branch", "--list"))
	branch, err := git.GetCurrentBranch(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "source", branch)
	assert.False(t, git.IsDirty(ctx, repo))
}

func TestPropagate_RepoBusy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)
	gitRun(t, repo, "branch", "target")
	gitRun(t, repo, "checkout", "-b", "source")
	writeAndCommit(t, repo, "f.txt", "f\n", "Feature")

	held := git.NewRepoLock(repo)
	require.NoError(t, held.TryLock())
	defer held.Unlock()

	eng := New(&stubPrompter{confirm: true})
	_, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: selection(t, repo, 1),
		Targets:   []string{"target"},
	})
	assert.ErrorIs(t, err, git.ErrRepoBusy)
}

func TestPropagate_DetachedHeadRestoresCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := setupRepo(t)

	gitRun(t, repo, "branch", "target")
	gitRun(t, repo, "checkout", "-b", "source")
	hash := writeAndCommit(t, repo, "f.txt", "f\n", "Feature")
	sel := selection(t, repo, 1)

	// Detach at the source tip
	gitRun(t, repo, "checkout", "--quiet", hash)

	eng := New(&stubPrompter{confirm: true})
	result, err := eng.Propagate(ctx, Options{
		RepoPath:  repo,
		Selection: sel,
		Targets:   []string{"target"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Targets[0].Status)

	// Back on the same detached commit
	_, err = git.GetCurrentBranch(ctx, repo)
	assert.ErrorIs(t, err, git.ErrNotOnBranch)
	assert.Equal(t, hash, gitOut(t, repo, "rev-parse", "HEAD"))
}

func TestReplayOrder(t *testing.T) {
	t.Parallel()

	sel := []git.Commit{{Hash: "c"}, {Hash: "b"}, {Hash: "a"}}
	got := ReplayOrder(sel)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Hash)
	assert.Equal(t, "b", got[1].Hash)
	assert.Equal(t, "c", got[2].Hash)

	// Input is not mutated
	assert.Equal(t, "c", sel[0].Hash)

	assert.Empty(t, ReplayOrder(nil))
}
