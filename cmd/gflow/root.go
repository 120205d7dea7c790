package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/git"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupWorkflow = "workflow"
	GroupGuarded  = "guarded"
	GroupConfig   = "config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gflow",
		Short: "Guarded branch workflows on top of git",
		Long: `gflow wraps everyday git workflows and adds guardrails around the risky ones.

Before a merge it checks the two branches for compatibility risks, predicts
conflicts and measures how far they have diverged. When a branch has drifted
too far to merge, it can replace the target branch with a backup, a
lease-protected force push and a typed confirmation.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags are parsed by now, so the logger sees -v and -q.
			cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet)))

			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}
			if resolver := config.ResolverFromContext(cmd.Context()); resolver != nil {
				styles.Init(resolver.Global().Theme)
			}
			return git.CheckGit(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupWorkflow, Title: "Workflow Commands:"},
		&cobra.Group{ID: GroupGuarded, Title: "Guarded Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Workflow commands
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newSaveCmd())
	cmd.AddCommand(newBranchCmd())
	cmd.AddCommand(newSwitchCmd())
	cmd.AddCommand(newStashCmd())

	// Guarded commands
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newReplaceCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// Execute builds the root command and runs it with a signal-aware context.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gflow: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd()
	ctx = output.WithPrinter(ctx, os.Stdout)
	ctx = config.WithResolver(ctx, config.NewResolver(&loadedCfg))
	ctx = config.WithWorkDir(ctx, workDir)
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gflow -h' for help")
		os.Exit(1)
	}
}
