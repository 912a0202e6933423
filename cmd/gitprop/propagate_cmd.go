package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/output"
	"github.com/miketan/gitprop/internal/propagate"
	"github.com/miketan/gitprop/internal/ui/prompt"
)

func newPropagateCmd() *cobra.Command {
	var (
		repoFlag string
		source   string
		targets  []string
		picks    []string
		combine  bool
		push     bool
		yes      bool
		mainline int
		message  string
	)

	cmd := &cobra.Command{
		Use:     "propagate",
		Short:   "Cherry-pick selected commits onto multiple branches",
		Aliases: []string{"prop"},
		GroupID: GroupPropagate,
		Args:    cobra.NoArgs,
		Long: `Cherry-pick selected commits onto one or more target branches.

Commits are applied oldest first, so dependent changes land in order.
If a target conflicts the run stops there: the conflicted branch is left
checked out for manual resolution and remaining targets are untouched.
Your original branch is restored in every other case.`,
		Example: `  gitprop propagate                          # pick commits and targets interactively
  gitprop propagate --commit a1b2c3 -t develop -t release/1.2 --yes
  gitprop propagate --combine --push         # squash the selection, push each target`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoPath, err := resolveRepoPath(ctx, repoFlag)
			if err != nil {
				return err
			}

			if source == "" {
				source, err = git.GetCurrentBranch(ctx, repoPath)
				if err != nil {
					return fmt.Errorf("cannot determine source branch: %w (use --source)", err)
				}
			}

			commits, err := git.ListCommits(ctx, repoPath, source, cfg.Propagate.MaxCommits)
			if err != nil {
				return err
			}
			if len(commits) == 0 {
				return fmt.Errorf("branch %s has no commits", source)
			}

			selection, err := selectCommits(commits, picks)
			if err != nil {
				return err
			}

			if len(targets) == 0 {
				targets, err = selectTargets(ctx, repoPath, source)
				if err != nil {
					return err
				}
			}

			if !cmd.Flags().Changed("push") {
				push = cfg.Propagate.AutoPush
			}

			engine := propagate.New(&consolePrompter{yes: yes, mainline: mainline, message: message})
			result, err := engine.Propagate(ctx, propagate.Options{
				RepoPath:    repoPath,
				Selection:   selection,
				Targets:     targets,
				Combine:     combine,
				Push:        push,
				PushTimeout: cfg.Propagate.PushTimeoutDuration(),
			})
			if err != nil {
				return err
			}

			for _, t := range result.Targets {
				switch t.Status {
				case propagate.StatusSucceeded:
					if t.PushErr != nil {
						out.Printf("%s: applied, push failed: %v\n", t.Branch, t.PushErr)
					} else if t.Pushed {
						out.Printf("%s: applied and pushed\n", t.Branch)
					} else {
						out.Printf("%s: applied\n", t.Branch)
					}
				case propagate.StatusFailed:
					out.Printf("%s: failed: %v\n", t.Branch, t.Err)
				case propagate.StatusNotAttempted:
					out.Printf("%s: not attempted\n", t.Branch)
				}
			}

			if result.Failed() {
				return fmt.Errorf("propagation stopped on a conflict, resolve it and rerun for the remaining branches")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")
	cmd.Flags().StringVar(&source, "source", "", "Branch to list commits from (default: current branch)")
	cmd.Flags().StringArrayVarP(&targets, "target", "t", nil, "Target branch (repeatable)")
	cmd.Flags().StringArrayVar(&picks, "commit", nil, "Commit hash to propagate (repeatable, prefix ok)")
	cmd.Flags().BoolVar(&combine, "combine", false, "Squash the selection into one commit before applying")
	cmd.Flags().BoolVar(&push, "push", false, "Push each target to origin after applying")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&mainline, "mainline", 0, "Parent number to use for merge commits (1-based)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message for the combined commit")

	return cmd
}

// selectCommits resolves --commit hashes against the listed commits, or
// falls back to an interactive multi-select. The returned slice keeps
// list order (newest first).
func selectCommits(commits []git.Commit, picks []string) ([]git.Commit, error) {
	if len(picks) > 0 {
		var selection []git.Commit
		for _, c := range commits {
			for _, p := range picks {
				if strings.HasPrefix(c.Hash, p) {
					selection = append(selection, c)
					break
				}
			}
		}
		if len(selection) != len(picks) {
			return nil, fmt.Errorf("matched %d of %d --commit hashes in the last %d commits", len(selection), len(picks), len(commits))
		}
		return selection, nil
	}

	if !isInteractive() {
		return nil, fmt.Errorf("no commits selected, pass --commit in non-interactive mode")
	}

	options := make([]string, len(commits))
	for i, c := range commits {
		options[i] = formatCommit(c)
	}

	result, err := prompt.MultiSelect("Select commits to propagate (space to toggle, enter to confirm)", options)
	if err != nil {
		return nil, err
	}
	if result.Cancelled {
		return nil, propagate.ErrUserCancelled
	}

	selection := make([]git.Commit, 0, len(result.Indices))
	for _, i := range result.Indices {
		selection = append(selection, commits[i])
	}
	return selection, nil
}

// selectTargets offers every local branch except the source.
func selectTargets(ctx context.Context, repoPath, source string) ([]string, error) {
	if !isInteractive() {
		return nil, fmt.Errorf("no targets given, pass --target in non-interactive mode")
	}

	branches, err := git.ListBranches(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	options := make([]string, 0, len(branches))
	for _, b := range branches {
		if b != source {
			options = append(options, b)
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("no other local branches to propagate to")
	}

	result, err := prompt.MultiSelect("Select target branches", options)
	if err != nil {
		return nil, err
	}
	if result.Cancelled {
		return nil, propagate.ErrUserCancelled
	}

	targets := make([]string, 0, len(result.Indices))
	for _, i := range result.Indices {
		targets = append(targets, options[i])
	}
	return targets, nil
}
