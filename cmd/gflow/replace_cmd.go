package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/replace"
	"github.com/raphi011/gflow/internal/ui/progress"
	"github.com/raphi011/gflow/internal/ui/prompt"
)

func newReplaceCmd() *cobra.Command {
	var (
		into       string
		copyBackup bool
	)

	cmd := &cobra.Command{
		Use:               "replace <source>",
		Short:             "Replace a branch with another, keeping a backup",
		GroupID:           GroupGuarded,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		Long: `Make target (default: the protected branch) point where source points.

The commits that would disappear from target are listed first. After a yes/no
question and a typed phrase ("REPLACE <target>"), gflow:

  1. creates and pushes <target>-backup-<timestamp> at target's current tip
  2. force-updates target on the remote, but only if nobody pushed meanwhile
  3. checks out target locally and resets it to the new remote state

If any step fails the command stops, says which step failed and names the
backup branch. Nothing is retried or rolled back. Afterwards the source
branch can be deleted, unless it is the protected branch.

Requires a terminal: there is no way to skip the confirmation.`,
		Example: `  gflow replace rewrite               # replace main with rewrite
  gflow replace rewrite --into develop
  gflow replace rewrite --copy-backup # copy the backup branch name`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			source := args[0]

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			caps := r.cfg.Capabilities()
			if !caps.Replace {
				return fmt.Errorf("replace is disabled by the %q profile", r.cfg.Profile)
			}
			if !isInteractive() {
				return errors.New("replace needs an interactive terminal for its confirmation")
			}
			if err := r.requireClean(ctx, "replace"); err != nil {
				return err
			}

			target := into
			if target == "" {
				target = r.cfg.ProtectedBranch
			}

			op, err := replace.New(r.client, source, target, replace.WithProtectedBranch(r.cfg.ProtectedBranch))
			if err != nil {
				return err
			}

			// The remote tip must exist locally for the impact and the backup.
			if err := progress.While("Fetching "+r.client.Remote(), func() error {
				return r.client.Fetch(ctx)
			}); err != nil {
				return err
			}

			impact, err := op.AnalyzeImpact(ctx)
			if err != nil {
				return err
			}
			out.Render(format.Impact(source, target, impact))

			if err := confirmReplace(op, source, target); err != nil {
				if errors.Is(err, replace.ErrDeclined) {
					l.Println("Replace cancelled; nothing was changed")
					return nil
				}
				return err
			}

			err = progress.While(fmt.Sprintf("Replacing %s with %s", target, source), func() error {
				return op.Execute(ctx)
			})
			if err != nil {
				return reportStepError(ctx, err)
			}
			out.Render(format.ReplaceStatus(op.Status()))

			if copyBackup {
				if err := clipboard.WriteAll(impact.Backup); err != nil {
					l.Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			if err := cleanupSource(ctx, op, caps.CleanupSource); err != nil {
				// The replace itself succeeded.
				var stepErr *replace.StepError
				if errors.As(err, &stepErr) {
					l.Printf("Warning: %s", format.StepError(stepErr))
					return nil
				}
				return err
			}
			l.Printf("Replaced %s with %s (backup: %s)\n", target, source, impact.Backup)
			return nil
		},
	}

	cmd.Flags().StringVar(&into, "into", "", "Branch to replace (default: protected branch)")
	cmd.Flags().BoolVar(&copyBackup, "copy-backup", false, "Copy the backup branch name to the clipboard")
	cmd.RegisterFlagCompletionFunc("into", completeBranches)

	return cmd
}

// confirmReplace asks both questions and records the answers on op.
func confirmReplace(op *replace.Operation, source, target string) error {
	res, err := prompt.ConfirmDanger(fmt.Sprintf("Replace %s with %s?", target, source))
	if err != nil {
		return err
	}
	if !res.Confirmed {
		return op.Confirm(false, "")
	}

	phrase := replace.ConfirmationPhrase(target)
	typed, err := prompt.TextInput(format.ReplaceWarning(source, target, phrase), phrase)
	if err != nil {
		return err
	}
	if typed.Cancelled {
		return op.Confirm(false, "")
	}
	return op.Confirm(true, typed.Value)
}

// cleanupSource offers to delete the source branch and finishes op.
func cleanupSource(ctx context.Context, op *replace.Operation, enabled bool) error {
	if !enabled || !op.CanCleanup() {
		return op.Cleanup(ctx, false)
	}
	res, err := prompt.ConfirmDanger(fmt.Sprintf("Delete %s locally and on the remote?", op.Source()))
	if err != nil {
		// Still finish the operation; the prompt failing changes nothing.
		_ = op.Cleanup(ctx, false)
		return err
	}
	return op.Cleanup(ctx, res.Confirmed)
}

func reportStepError(ctx context.Context, err error) error {
	var stepErr *replace.StepError
	if !errors.As(err, &stepErr) {
		return err
	}
	log.FromContext(ctx).Printf("%s", format.StepError(stepErr))
	return fmt.Errorf("replace stopped at %s", stepErr.Step)
}
