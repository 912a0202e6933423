package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/output"
)

func newCommitsCmd() *cobra.Command {
	var (
		repoFlag string
		source   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:     "commits",
		Short:   "List recent commits of a branch",
		GroupID: GroupPropagate,
		Args:    cobra.NoArgs,
		Example: `  gitprop commits                 # recent commits of the current branch
  gitprop commits --source develop --max 10`,
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
					return fmt.Errorf("cannot determine branch: %w (use --source)", err)
				}
			}
			if limit <= 0 {
				limit = cfg.Propagate.MaxCommits
			}

			commits, err := git.ListCommits(ctx, repoPath, source, limit)
			if err != nil {
				return err
			}

			for _, c := range commits {
				if c.IsMerge() {
					out.Printf("%s (merge)\n", formatCommit(c))
				} else {
					out.Println(formatCommit(c))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")
	cmd.Flags().StringVar(&source, "source", "", "Branch to list (default: current branch)")
	cmd.Flags().IntVarP(&limit, "max", "n", 0, "Number of commits to list")

	return cmd
}
