package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/ai"
	"github.com/miketan/gitprop/internal/forge"
	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
	"github.com/miketan/gitprop/internal/output"
	"github.com/miketan/gitprop/internal/ui/prompt"
)

func newPrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Short:   "Manage pull requests",
		GroupID: GroupBranch,
	}

	cmd.AddCommand(newPrCreateCmd())

	return cmd
}

// resolvePRTarget picks the PR base branch: the flag wins, then the
// configured default, then the origin's default branch.
func resolvePRTarget(ctx context.Context, repoPath, flag, configured string) string {
	if flag != "" {
		return flag
	}
	if configured != "" {
		return configured
	}
	return git.GetDefaultBranch(ctx, repoPath)
}

func newPrCreateCmd() *cobra.Command {
	var (
		repoFlag string
		target   string
		title    string
		body     string
		useAI    bool
		draft    bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Push the current branch and open a GitHub PR",
		Args:  cobra.NoArgs,
		Long: `Push the current branch to origin and create a PR with the gh CLI.

With --ai, the title and description are generated from the diff against
the target branch and opened for review. If the branch already has an
open PR its URL is printed instead.`,
		Example: `  gitprop pr create --ai
  gitprop pr create --target release/1.2 --title "Backport fix" --yes
  gitprop pr create --ai --draft`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)
			out := output.FromContext(ctx)

			repoPath, err := resolveRepoPath(ctx, repoFlag)
			if err != nil {
				return err
			}

			gh := &forge.GitHub{}
			if err := gh.Check(ctx); err != nil {
				return err
			}

			branch, err := git.GetCurrentBranch(ctx, repoPath)
			if err != nil {
				return fmt.Errorf("cannot create a PR from a detached HEAD: %w", err)
			}
			target = resolvePRTarget(ctx, repoPath, target, cfg.PR.DefaultTarget)
			if branch == target {
				return fmt.Errorf("already on %s, check out the branch to merge first", target)
			}

			logger.Printf("Pushing %s to origin...\n", branch)
			if err := git.Push(ctx, repoPath, branch, true, cfg.Propagate.PushTimeoutDuration()); err != nil {
				return err
			}

			if existing, err := gh.FindPR(ctx, repoPath, branch); err != nil {
				logger.Printf("warning: could not check for an existing PR: %v\n", err)
			} else if existing != nil {
				out.Printf("PR already open: %s\n", existing.URL)
				return nil
			}

			if err := git.FetchBranch(ctx, repoPath, target); err != nil {
				logger.Printf("warning: could not fetch origin/%s: %v\n", target, err)
			}

			if useAI && (title == "" || body == "") {
				diff, err := git.GetDiff(ctx, repoPath, "origin/"+target, branch)
				if err != nil {
					return err
				}

				client, err := ai.NewClient(ctx, cfg.AI)
				if err != nil {
					return err
				}
				aiTitle, aiBody, err := client.PRContent(ctx, diff, branch, target)
				if err != nil {
					return err
				}
				if title == "" {
					title = aiTitle
				}
				if body == "" {
					body = aiBody
				}
			}

			if title == "" {
				if !isInteractive() {
					return fmt.Errorf("no title, pass --title or --ai")
				}
				// Suggest the last commit subject, like gh does
				suggested := ""
				if msg, err := git.GetLastCommitMessage(ctx, repoPath); err == nil {
					suggested, _, _ = strings.Cut(msg, "\n")
				}
				result, err := prompt.TextInput("PR title", suggested)
				if err != nil {
					return err
				}
				if result.Cancelled {
					return fmt.Errorf("no title given")
				}
				title = strings.TrimSpace(result.Value)
				if title == "" {
					title = suggested
				}
				if title == "" {
					return fmt.Errorf("no title given")
				}
			}

			if !yes && isInteractive() {
				result, err := prompt.TextArea(fmt.Sprintf("PR description for %q (ctrl+s to accept)", title), body)
				if err != nil {
					return err
				}
				if result.Cancelled {
					return fmt.Errorf("PR creation aborted")
				}
				body = result.Value
			}

			created, err := gh.CreatePR(ctx, repoPath, forge.CreatePRParams{
				Title: title,
				Body:  body,
				Base:  target,
				Head:  branch,
				Draft: draft,
			})
			if err != nil {
				return err
			}

			out.Printf("Created PR #%d: %s\n", created.Number, created.URL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")
	cmd.Flags().StringVar(&target, "target", "", "Target branch (default: config, then origin's default branch)")
	cmd.Flags().StringVar(&title, "title", "", "PR title")
	cmd.Flags().StringVar(&body, "body", "", "PR description")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Generate title and description from the diff")
	cmd.Flags().BoolVar(&draft, "draft", false, "Create as draft")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the review prompt")

	return cmd
}
