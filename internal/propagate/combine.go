package propagate

import (
	"context"
	"fmt"
	"strings"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
)

// DefaultCombinedMessage builds the suggested message for a squashed
// commit from the selected subjects, oldest first.
func DefaultCombinedMessage(ordered []git.Commit) string {
	if len(ordered) == 1 {
		return ordered[0].Subject
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Combine %d commits\n", len(ordered)))
	for _, c := range ordered {
		sb.WriteString(fmt.Sprintf("\n* %s", c.Subject))
	}
	return sb.String()
}

// squashBase returns the commit the temporary branch is cut at: the
// parent of the oldest selected commit. For a merge commit the resolved
// mainline parent is used.
func squashBase(oldest git.Commit, mainlines map[string]int) (string, error) {
	if len(oldest.Parents) == 0 {
		return "", &AmbiguousBaseError{Hash: oldest.Hash}
	}
	if oldest.IsMerge() {
		m := mainlines[oldest.Hash]
		if m < 1 || m > len(oldest.Parents) {
			return "", &AmbiguousBaseError{Hash: oldest.Hash}
		}
		return oldest.Parents[m-1], nil
	}
	return oldest.Parents[0], nil
}

// combine replays the ordered selection onto the temporary branch and
// squashes it into a single commit. The temporary branch is left
// checked out; the caller owns its deletion. Returns the hash of the
// squashed commit.
func combine(ctx context.Context, repoPath, tempBranch string, ordered []git.Commit, mainlines map[string]int, message string) (string, error) {
	base, err := squashBase(ordered[0], mainlines)
	if err != nil {
		return "", err
	}

	if err := git.CreateBranch(ctx, repoPath, tempBranch, base); err != nil {
		return "", err
	}

	for _, c := range ordered {
		if err := git.CherryPick(ctx, repoPath, c.Hash, mainlines[c.Hash]); err != nil {
			// Clear the half-applied pick so teardown can check the
			// original branch out and delete the scratch branch.
			if abortErr := git.CherryPickAbort(ctx, repoPath); abortErr != nil {
				log.FromContext(ctx).Printf("warning: %v\n", abortErr)
			}
			return "", &CombineConflictError{Hash: c.Hash, Err: err}
		}
	}

	// Collapse the replayed commits into one
	if err := git.ResetSoft(ctx, repoPath, base); err != nil {
		return "", err
	}
	if err := git.CommitWithMessage(ctx, repoPath, message); err != nil {
		return "", err
	}

	return git.RevParse(ctx, repoPath, "HEAD")
}
