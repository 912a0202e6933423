package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/config"
	"github.com/miketan/gitprop/internal/git"
	"github.com/miketan/gitprop/internal/log"
	"github.com/miketan/gitprop/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg config.Config
)

// Command group IDs for organizing help output
const (
	GroupPropagate = "propagate"
	GroupBranch    = "branch"
	GroupRefresh   = "refresh"
	GroupConfig    = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitprop",
	Short: "Propagate commits across branches with AI-assisted git workflows",
	Long: `gitprop cherry-picks selected commits onto multiple target branches in
one transactional run, keeps tracked branches fresh from their upstreams,
and generates commit messages, branch names and PR content from diffs.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip git check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed by now, so the logger sees --verbose/--quiet
		logger := log.New(os.Stderr, verbose, quiet)
		cmd.SetContext(log.WithLogger(cmd.Context(), logger))

		return git.CheckGit()
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = loadedCfg

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gitprop -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupPropagate, Title: "Propagation Commands:"},
		&cobra.Group{ID: GroupBranch, Title: "Branch & Commit Commands:"},
		&cobra.Group{ID: GroupRefresh, Title: "Refresh Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Propagation commands
	rootCmd.AddCommand(newPropagateCmd())
	rootCmd.AddCommand(newCommitsCmd())

	// Branch & commit commands
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newPrCmd())

	// Refresh commands
	rootCmd.AddCommand(newRefreshCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
}
