package git

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// TempBranchName returns a collision-safe scratch branch name like
// "combine-3fa1b2c4".
func TempBranchName(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b))
}

// Commit is a single commit as shown by git log.
type Commit struct {
	Hash    string
	Parents []string
	Author  string
	Subject string
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ShortHash returns the abbreviated (7 char) hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) < 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// ListCommits returns up to max commits reachable from rev, newest first.
// An empty rev lists from HEAD.
func ListCommits(ctx context.Context, repoPath, rev string, max int) ([]Commit, error) {
	args := []string{"log", "--pretty=format:%H|%P|%an|%s"}
	if max > 0 {
		args = append(args, "-n", fmt.Sprintf("%d", max))
	}
	if rev != "" {
		args = append(args, rev)
	}

	output, err := outputGit(ctx, repoPath, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %v", err)
	}

	var commits []Commit
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// hash|parents|author|subject; the subject may itself contain '|'
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}
		c := Commit{
			Hash:    parts[0],
			Author:  parts[2],
			Subject: parts[3],
		}
		if p := strings.TrimSpace(parts[1]); p != "" {
			c.Parents = strings.Fields(p)
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// GetParents returns the parent hashes of a commit.
func GetParents(ctx context.Context, repoPath, hash string) ([]string, error) {
	output, err := outputGit(ctx, repoPath, "rev-list", "--parents", "-n", "1", hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get parents of %s: %v", hash, err)
	}
	// Output is "<hash> <parent1> <parent2> ..."
	fields := strings.Fields(strings.TrimSpace(string(output)))
	if len(fields) < 1 {
		return nil, fmt.Errorf("unexpected rev-list output for %s", hash)
	}
	return fields[1:], nil
}

// IsMergeCommit reports whether the commit has more than one parent.
func IsMergeCommit(ctx context.Context, repoPath, hash string) (bool, error) {
	parents, err := GetParents(ctx, repoPath, hash)
	if err != nil {
		return false, err
	}
	return len(parents) > 1, nil
}

// CherryPick applies a commit onto the current branch. For merge commits
// mainline selects which parent's changes to replay (1-based); pass 0
// for regular commits.
func CherryPick(ctx context.Context, repoPath, hash string, mainline int) error {
	args := []string{"cherry-pick"}
	if mainline > 0 {
		args = append(args, "-m", fmt.Sprintf("%d", mainline))
	}
	args = append(args, hash)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("cherry-pick of %s failed: %v", hash, err)
	}
	return nil
}

// CherryPickAbort cancels an in-progress cherry-pick and returns the
// worktree to its pre-pick state.
func CherryPickAbort(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "cherry-pick", "--abort"); err != nil {
		return fmt.Errorf("failed to abort cherry-pick: %v", err)
	}
	return nil
}

// ResetSoft moves HEAD to the given revision keeping the index and
// worktree as they are.
func ResetSoft(ctx context.Context, repoPath, rev string) error {
	if err := runGit(ctx, repoPath, "reset", "--soft", rev); err != nil {
		return fmt.Errorf("failed to reset to %s: %v", rev, err)
	}
	return nil
}
