package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/miketan/gitprop/internal/cmd"
	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/propagate"
	"github.com/miketan/gitprop/internal/ui/prompt"
)

// resolveRepoPath returns the repo toplevel: the -C/--repo flag when
// set, otherwise the toplevel of the working directory.
func resolveRepoPath(ctx context.Context, repoFlag string) (string, error) {
	if repoFlag != "" {
		abs, err := filepath.Abs(repoFlag)
		if err != nil {
			return "", err
		}
		if !git.IsInsideRepoPath(ctx, abs) {
			return "", fmt.Errorf("%s is not a git repository", abs)
		}
		return abs, nil
	}

	out, err := cmd.OutputContext(ctx, "", "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository (use -C to point at one)")
	}
	return strings.TrimSpace(string(out)), nil
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

func formatCommit(c git.Commit) string {
	return fmt.Sprintf("%s %s (%s)", c.ShortHash(), c.Subject, c.Author)
}

// consolePrompter backs propagate.Prompter with terminal prompts.
// Flag presets (--yes, --mainline, --message) answer without prompting
// so runs can be scripted.
type consolePrompter struct {
	yes      bool
	mainline int
	message  string
}

func (p *consolePrompter) ChooseMainline(c git.Commit) (int, error) {
	if p.mainline > 0 {
		return p.mainline, nil
	}
	if !isInteractive() {
		return 0, fmt.Errorf("commit %s is a merge, pass --mainline to pick a parent", c.ShortHash())
	}

	options := make([]string, len(c.Parents))
	for i, parent := range c.Parents {
		options[i] = fmt.Sprintf("parent %d: %s", i+1, parent[:min(12, len(parent))])
	}

	result, err := prompt.Select(fmt.Sprintf("Merge commit %s: replay against which parent?", c.ShortHash()), options)
	if err != nil {
		return 0, err
	}
	if result.Cancelled {
		return 0, propagate.ErrUserCancelled
	}
	return result.Index + 1, nil
}

func (p *consolePrompter) EditCombinedMessage(suggested string) (string, error) {
	if p.message != "" {
		return p.message, nil
	}
	if p.yes || !isInteractive() {
		return suggested, nil
	}

	result, err := prompt.TextArea("Combined commit message (ctrl+s to accept)", suggested)
	if err != nil {
		return "", err
	}
	if result.Cancelled {
		return "", propagate.ErrUserCancelled
	}
	if strings.TrimSpace(result.Value) == "" {
		return suggested, nil
	}
	return result.Value, nil
}

func (p *consolePrompter) ConfirmPlan(plan propagate.Plan) (bool, error) {
	fmt.Fprintf(os.Stderr, "\nWill apply %d commit(s), oldest first:\n", len(plan.Commits))
	for _, c := range plan.Commits {
		fmt.Fprintf(os.Stderr, "  %s\n", formatCommit(c))
	}
	fmt.Fprintf(os.Stderr, "to %d branch(es): %s\n", len(plan.Targets), strings.Join(plan.Targets, ", "))
	if plan.Combine {
		fmt.Fprintln(os.Stderr, "Commits will be squashed into one before applying.")
	}
	if plan.Push {
		fmt.Fprintln(os.Stderr, "Each branch will be pushed to origin afterwards.")
	}

	if p.yes {
		return true, nil
	}
	if !isInteractive() {
		return false, fmt.Errorf("refusing to run without confirmation, pass --yes")
	}

	result, err := prompt.Confirm("Proceed?")
	if err != nil {
		return false, err
	}
	return result.Confirmed && !result.Cancelled, nil
}
