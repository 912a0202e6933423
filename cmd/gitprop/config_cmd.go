package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/miketan/gitprop/internal/config"
	"github.com/miketan/gitprop/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage gitprop configuration.

Config file: ~/.config/gitprop/config.toml`,
		Example: `  gitprop config init   # Create default config
  gitprop config show   # Show effective config
  gitprop config path   # Print the config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  gitprop config init      # Create config with commented defaults
  gitprop config init -f   # Overwrite existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			path, err := config.Init(force)
			if err != nil {
				return err
			}

			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			path, err := config.Path()
			if err != nil {
				return err
			}
			out.Printf("Config file: %s\n\n", path)

			out.Printf("propagate.max_commits: %d\n", cfg.Propagate.MaxCommits)
			out.Printf("propagate.auto_push: %v\n", cfg.Propagate.AutoPush)
			out.Printf("propagate.push_timeout: %s\n", cfg.Propagate.PushTimeoutDuration())
			target := cfg.PR.DefaultTarget
			if target == "" {
				target = "(origin default)"
			}
			out.Printf("pr.default_target: %s\n", target)
			out.Printf("ai.model: %s\n", cfg.AI.Model)
			if cfg.AI.ResolveAPIKey() != "" {
				out.Printf("ai.api_key: (set)\n")
			} else {
				out.Printf("ai.api_key: (not set)\n")
			}
			out.Printf("refresh.interval: %s\n", cfg.Refresh.IntervalDuration())

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			path, err := config.Path()
			if err != nil {
				return err
			}
			out.Println(path)
			return nil
		},
	}
}
