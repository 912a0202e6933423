package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
	"github.com/miketan/gitprop/internal/output"
	"github.com/miketan/gitprop/internal/refresh"
	"github.com/miketan/gitprop/internal/registry"
)

func newRefreshCmd() *cobra.Command {
	var (
		repoFlag string
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:     "refresh",
		Short:   "Recreate tracked branches from their upstreams",
		GroupID: GroupRefresh,
		Args:    cobra.NoArgs,
		Long: `Delete and recreate tracked local branches at their upstream's tip.

Only branches previously registered with 'gitprop refresh add' are
touched. With --watch the refresh reruns on an interval until
interrupted.`,
		Example: `  gitprop refresh                # refresh all tracked repos once
  gitprop refresh -C ~/src/app   # only this repo
  gitprop refresh --watch        # keep refreshing on the configured interval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reg, err := registry.Load()
			if err != nil {
				return err
			}

			repos := reg.Repos
			if repoFlag != "" {
				repoPath, err := resolveRepoPath(ctx, repoFlag)
				if err != nil {
					return err
				}
				repo, err := reg.FindByPath(repoPath)
				if err != nil {
					return err
				}
				repos = []registry.Repo{*repo}
			}
			if len(repos) == 0 {
				return fmt.Errorf("no tracked branches, add some with 'gitprop refresh add'")
			}

			if interval > 0 {
				watch = true
			} else {
				interval = cfg.Refresh.IntervalDuration()
			}
			if !watch {
				return refreshAll(ctx, repos)
			}

			logger := log.FromContext(ctx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if err := refreshAll(ctx, repos); err != nil {
					logger.Printf("warning: %v\n", err)
				}
				logger.Printf("Next refresh in %s\n", interval)

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Refresh only this repository")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep refreshing on an interval")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Interval between refreshes, implies --watch (default from config)")

	cmd.AddCommand(newRefreshAddCmd())
	cmd.AddCommand(newRefreshRemoveCmd())
	cmd.AddCommand(newRefreshListCmd())

	return cmd
}

func refreshAll(ctx context.Context, repos []registry.Repo) error {
	out := output.FromContext(ctx)
	logger := log.FromContext(ctx)

	var failed int
	for _, repo := range repos {
		summary, err := refresh.Refresh(ctx, repo.Path, repo.Branches)
		if err != nil {
			logger.Printf("warning: %s: %v\n", repo.Name, err)
			failed++
			continue
		}

		for _, r := range summary.Results {
			switch r.Outcome {
			case refresh.OutcomeRefreshed:
				out.Printf("%s: %s refreshed\n", repo.Name, r.Branch)
			case refresh.OutcomeSkippedNoUpstream:
				out.Printf("%s: %s skipped (no upstream)\n", repo.Name, r.Branch)
			case refresh.OutcomeFailed:
				out.Printf("%s: %s failed: %v\n", repo.Name, r.Branch, r.Err)
				failed++
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d branch(es) could not be refreshed", failed)
	}
	return nil
}

func newRefreshAddCmd() *cobra.Command {
	var repoFlag string

	cmd := &cobra.Command{
		Use:   "add [branch...]",
		Short: "Track branches for refresh",
		Long: `Track branches of the current repository for refresh.

Without arguments the current branch is tracked.`,
		Example: `  gitprop refresh add            # track the current branch
  gitprop refresh add develop release/1.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoPath, err := resolveRepoPath(ctx, repoFlag)
			if err != nil {
				return err
			}

			branches := args
			if len(branches) == 0 {
				current, err := git.GetCurrentBranch(ctx, repoPath)
				if err != nil {
					return fmt.Errorf("cannot determine branch to track: %w", err)
				}
				branches = []string{current}
			}

			for _, branch := range branches {
				if !git.BranchExists(ctx, repoPath, branch) {
					return fmt.Errorf("branch %q does not exist", branch)
				}
			}

			reg, err := registry.Load()
			if err != nil {
				return err
			}
			// Name the repo after its origin, falling back to the directory
			name, err := git.GetRepoNameFrom(ctx, repoPath)
			if err != nil {
				name = git.GetRepoDisplayName(repoPath)
			}
			for _, branch := range branches {
				if err := reg.AddBranch(repoPath, name, branch); err != nil {
					return err
				}
			}
			if err := reg.Save(); err != nil {
				return err
			}

			repo, err := reg.FindByPath(repoPath)
			if err != nil {
				return err
			}
			out.Printf("Tracking %s\n", repo)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")

	return cmd
}

func newRefreshRemoveCmd() *cobra.Command {
	var repoFlag string

	cmd := &cobra.Command{
		Use:     "remove <branch>...",
		Short:   "Stop tracking branches",
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoPath, err := resolveRepoPath(ctx, repoFlag)
			if err != nil {
				return err
			}

			reg, err := registry.Load()
			if err != nil {
				return err
			}
			for _, branch := range args {
				if err := reg.RemoveBranch(repoPath, branch); err != nil {
					return err
				}
			}
			if err := reg.Save(); err != nil {
				return err
			}

			out.Printf("Stopped tracking %d branch(es)\n", len(args))
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")

	return cmd
}

func newRefreshListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List tracked branches",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			reg, err := registry.Load()
			if err != nil {
				return err
			}
			if len(reg.Repos) == 0 {
				out.Println("No tracked branches")
				return nil
			}

			for i := range reg.Repos {
				out.Printf("%s\n  %s\n", &reg.Repos[i], reg.Repos[i].Path)
			}
			return nil
		},
	}
}
