package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/ai"
	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/output"
	"github.com/miketan/gitprop/internal/ui/prompt"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Short:   "Manage branches",
		GroupID: GroupBranch,
	}

	cmd.AddCommand(newBranchNewCmd())

	return cmd
}

func newBranchNewCmd() *cobra.Command {
	var (
		repoFlag string
		base     string
		prefix   string
		useAI    bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a branch, optionally naming it from the staged diff",
		Args:  cobra.MaximumNArgs(1),
		Long: `Create a branch from a base branch.

Without a name, --ai suggests one from the staged diff; otherwise you
are prompted. The new branch is checked out.`,
		Example: `  gitprop branch new fix-login-redirect
  gitprop branch new --ai --prefix feature/   # name suggested from staged changes
  gitprop branch new hotfix --base release/1.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoPath, err := resolveRepoPath(ctx, repoFlag)
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = prefix + args[0]
			}

			if name == "" && useAI {
				diff, err := git.GetStagedDiff(ctx, repoPath)
				if err != nil {
					return err
				}
				if strings.TrimSpace(diff) == "" {
					return fmt.Errorf("no staged changes to suggest a name from, stage files first")
				}

				client, err := ai.NewClient(ctx, cfg.AI)
				if err != nil {
					return err
				}
				name, err = client.BranchName(ctx, diff, prefix)
				if err != nil {
					return err
				}
			}

			if name == "" {
				if !isInteractive() {
					return fmt.Errorf("branch name required (or --ai with staged changes)")
				}
				result, err := prompt.TextInput("Branch name", prefix+"my-branch")
				if err != nil {
					return err
				}
				if result.Cancelled || strings.TrimSpace(result.Value) == "" {
					return fmt.Errorf("no branch name given")
				}
				name = prefix + strings.TrimSpace(result.Value)
			}

			if base == "" {
				base, err = git.GetCurrentBranch(ctx, repoPath)
				if err != nil {
					return fmt.Errorf("cannot determine base branch: %w (use --base)", err)
				}
			}
			if git.BranchExists(ctx, repoPath, name) {
				return fmt.Errorf("branch %q already exists", name)
			}

			if err := git.CreateBranch(ctx, repoPath, name, base); err != nil {
				return err
			}

			out.Printf("Created and checked out %s (from %s)\n", name, base)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")
	cmd.Flags().StringVar(&base, "base", "", "Base branch (default: current branch)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix for the branch name (e.g. feature/)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Suggest a name from the staged diff")

	return cmd
}
