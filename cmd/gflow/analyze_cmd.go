package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/analysis"
	"github.com/raphi011/gflow/internal/conflict"
	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/ui/progress"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "analyze <source> [target]",
		Short:             "Assess the risk of merging source into target",
		GroupID:           GroupGuarded,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeBranches,
		Long: `Run the pre-merge analyses enabled by the active profile and print one report.

Compatibility looks for deleted source files, dependency manifest drift,
configuration, API and database changes. Conflict prediction simulates the
merge without touching the working tree. Divergence analysis counts how far
the branches have drifted and suggests a replace when merging is unwise.

The target defaults to the current branch. Nothing is modified.`,
		Example: `  gflow analyze feature/login          # into the current branch
  gflow analyze feature/login main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}

			source := args[0]
			var target string
			if len(args) == 2 {
				target = args[1]
			} else if target, err = r.currentBranch(ctx); err != nil {
				return err
			}

			report, err := analyze(ctx, r, source, target)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Render(format.Analysis(report))
			return nil
		},
	}

	return cmd
}

// analyze runs the enabled analyzers behind a spinner. A failed merge
// simulation still shows the files it found before the error is returned.
func analyze(ctx context.Context, r *repo, source, target string) (*analysis.Report, error) {
	caps := r.cfg.Capabilities()
	if !caps.Analysis() {
		return nil, fmt.Errorf("analysis is disabled by the %q profile", r.cfg.Profile)
	}
	if source == target {
		return nil, fmt.Errorf("source and target are both %s", source)
	}

	rules, err := r.rules()
	if err != nil {
		return nil, err
	}

	var report *analysis.Report
	err = progress.While(fmt.Sprintf("Analyzing %s -> %s", source, target), func() error {
		var err error
		report, err = analysis.New(r.client, rules, caps).Analyze(ctx, source, target)
		return err
	})

	var simErr *conflict.SimulationError
	if errors.As(err, &simErr) {
		output.FromContext(ctx).Render(format.SimulationFailure(simErr))
	}
	return report, err
}
