package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/analysis"
	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/ui/prompt"
	"github.com/raphi011/gflow/internal/vcs"
)

// errMergeAborted is returned when the user stops a risky merge.
var errMergeAborted = errors.New("merge aborted")

func newMergeCmd() *cobra.Command {
	var (
		into string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:               "merge <source>",
		Short:             "Merge a branch after checking it is safe",
		GroupID:           GroupGuarded,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		Long: `Merge source into target (default: the current branch).

When the profile enables analysis, the merge report is shown first. A report
with anything other than a clean verdict asks for confirmation; --yes skips
the question. Branches without a common ancestor are never merged.

git's exit status is reported when the merge stops on conflicts; resolve them
and commit, or run "git merge --abort".`,
		Example: `  gflow merge feature/login
  gflow merge feature/login --into release
  gflow merge feature/login --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			source := args[0]

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			current, err := r.currentBranch(ctx)
			if err != nil {
				return err
			}
			target := into
			if target == "" {
				target = current
			}
			if source == target {
				return fmt.Errorf("cannot merge %s into itself", source)
			}
			if err := r.requireClean(ctx, "merge"); err != nil {
				return err
			}

			if _, err := r.client.MergeBase(ctx, source, target); err != nil {
				if errors.Is(err, vcs.ErrNoCommonAncestor) {
					return fmt.Errorf("refusing to merge: %w", err)
				}
				return err
			}

			if r.cfg.Capabilities().Analysis() {
				report, err := analyze(ctx, r, source, target)
				if err != nil {
					return err
				}
				out.Render(format.Analysis(report))

				verdict := report.Verdict()
				if verdict == analysis.VerdictReplaceSuggested && r.cfg.Capabilities().Replace {
					l.Printf("Hint: gflow replace %s --into %s replaces %s instead of merging\n", source, target, target)
				}
				if verdict != analysis.VerdictClean && !yes {
					if err := confirmMerge(source, target, verdict); err != nil {
						return err
					}
				}
			}

			if target != current {
				if err := r.client.Checkout(ctx, target); err != nil {
					return err
				}
			}

			code, err := r.client.Merge(ctx, source)
			if err != nil {
				return err
			}
			if code != 0 {
				return fmt.Errorf("git merge exited with status %d: resolve the conflicts and commit, or run \"git merge --abort\"", code)
			}
			l.Printf("Merged %s into %s\n", source, target)

			snap, err := r.capture(ctx)
			if err != nil {
				return err
			}
			out.Render(format.Snapshot(snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Target branch (default: current branch)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Merge without asking when the report is not clean")
	cmd.RegisterFlagCompletionFunc("into", completeBranches)

	return cmd
}

func confirmMerge(source, target string, verdict analysis.Verdict) error {
	if !isInteractive() {
		return fmt.Errorf("%w: verdict is %s (pass --yes to merge anyway)", errMergeAborted, verdict)
	}
	res, err := prompt.Confirm(fmt.Sprintf("Verdict is %s. Merge %s into %s anyway?", verdict, source, target))
	if err != nil {
		return err
	}
	if !res.Confirmed {
		return errMergeAborted
	}
	return nil
}
