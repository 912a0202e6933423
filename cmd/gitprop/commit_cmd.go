package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/ai"
	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/output"
	"github.com/miketan/gitprop/internal/ui/prompt"
)

func newCommitCmd() *cobra.Command {
	var (
		repoFlag string
		all      bool
		message  string
		useAI    bool
		copyMsg  bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:     "commit [path...]",
		Short:   "Commit staged changes with a generated message",
		GroupID: GroupBranch,
		Long: `Commit staged changes.

Path arguments are staged first; --all stages everything. With --ai, a
Conventional Commits message is generated from the staged diff and
opened for review before committing. --copy puts the message on the
clipboard instead of committing, for use in another tool.`,
		Example: `  gitprop commit --ai              # generate, review, commit
  gitprop commit --ai --all        # stage everything first
  gitprop commit --ai main.go      # stage main.go, then commit
  gitprop commit --ai --copy       # copy the suggestion, commit nothing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoPath, err := resolveRepoPath(ctx, repoFlag)
			if err != nil {
				return err
			}

			if all {
				if err := git.StageAll(ctx, repoPath); err != nil {
					return err
				}
			} else if len(args) > 0 {
				if err := git.StagePaths(ctx, repoPath, args); err != nil {
					return err
				}
			}

			diff, err := git.GetStagedDiff(ctx, repoPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(diff) == "" {
				if unstaged, err := git.GetUnstagedDiff(ctx, repoPath); err == nil && strings.TrimSpace(unstaged) != "" {
					return fmt.Errorf("nothing staged, but there are unstaged changes: pass paths or --all")
				}
				return fmt.Errorf("nothing staged, stage files first (or use --all)")
			}

			if message == "" && useAI {
				client, err := ai.NewClient(ctx, cfg.AI)
				if err != nil {
					return err
				}
				message, err = client.CommitMessage(ctx, diff)
				if err != nil {
					return err
				}
			}
			if message == "" {
				return fmt.Errorf("no commit message, pass -m or --ai")
			}

			if !yes && isInteractive() {
				verb := "commit"
				if copyMsg {
					verb = "copy"
				}
				result, err := prompt.TextArea(fmt.Sprintf("Commit message (ctrl+s to %s)", verb), message)
				if err != nil {
					return err
				}
				if result.Cancelled {
					return fmt.Errorf("commit aborted")
				}
				if strings.TrimSpace(result.Value) != "" {
					message = result.Value
				}
			}

			if copyMsg {
				if err := clipboard.WriteAll(message); err != nil {
					return fmt.Errorf("could not copy message to clipboard: %w", err)
				}
				out.Println("Message copied to clipboard, nothing committed")
				return nil
			}

			if err := git.CommitWithMessage(ctx, repoPath, message); err != nil {
				return err
			}

			relative, err := git.GetLastCommitRelative(ctx, repoPath)
			if err != nil {
				relative = "just now"
			}
			hash, err := git.GetShortCommitHash(ctx, repoPath)
			if err != nil {
				return err
			}
			out.Printf("Committed %s (%s)\n", hash, relative)
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "C", "", "Repository path (default: current directory)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stage all changes before committing")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message (skips generation)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Generate the message from the staged diff")
	cmd.Flags().BoolVar(&copyMsg, "copy", false, "Copy the message to the clipboard instead of committing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the review prompt")

	return cmd
}
