package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/vcs"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage gflow configuration.

Global config: ~/.config/gflow/config.toml (or $GFLOW_CONFIG)
Local config:  .gflow.toml (in the repository root)`,
		Example: `  gflow config init          # Create default global config
  gflow config init --local  # Create local repo config
  gflow config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force bool
		local bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config at ~/.config/gflow/config.toml.
With --local, creates .gflow.toml in the current repository root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				path string
				err  error
			)
			if local {
				r, openErr := openRepo(ctx)
				if openErr != nil {
					return openErr
				}
				path, err = config.InitLocal(r.root, force)
			} else {
				path, err = config.Init(force)
			}
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVar(&local, "local", false, "Create per-repo .gflow.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration as TOML.

Inside a repository, .gflow.toml overrides are applied and every feature flag
is shown resolved from the profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := config.Default()
			effective := &cfg
			if resolver := config.ResolverFromContext(ctx); resolver != nil {
				effective = resolver.Global()
			}
			r, err := openRepo(ctx)
			switch {
			case err == nil:
				effective = r.cfg
			case !errors.Is(err, vcs.ErrNotARepository):
				return err
			}

			text, err := effective.Encode()
			if err != nil {
				return err
			}
			output.FromContext(ctx).Print(text)
			return nil
		},
	}

	return cmd
}
