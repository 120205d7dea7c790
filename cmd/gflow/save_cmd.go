package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/ui/prompt"
)

func newSaveCmd() *cobra.Command {
	var (
		message string
		push    bool
	)

	cmd := &cobra.Command{
		Use:     "save",
		Short:   "Stage everything, commit and optionally push",
		GroupID: GroupWorkflow,
		Args:    cobra.NoArgs,
		Long: `Stage all changes (including untracked files) and commit them.

Without -m the commit message is asked for interactively. With --push the
commit is pushed, setting the upstream when the branch has none.`,
		Example: `  gflow save -m "Fix login redirect"
  gflow save -m "WIP" --push`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}

			before, err := r.capture(ctx)
			if err != nil {
				return err
			}
			if !before.Dirty {
				l.Println("Nothing to save: working tree clean")
				return nil
			}

			if message == "" {
				if !isInteractive() {
					return errors.New("commit message required: pass -m")
				}
				res, err := prompt.TextInput("Commit message", "")
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				message = res.Value
			}

			if err := r.client.AddAll(ctx); err != nil {
				return err
			}
			if err := r.client.Commit(ctx, message); err != nil {
				return err
			}
			l.Printf("Committed on %s\n", before.Branch)

			if push {
				if before.Detached() {
					return errors.New("cannot push a detached HEAD")
				}
				if err := r.client.Push(ctx, before.Branch, before.Upstream == ""); err != nil {
					return err
				}
				l.Printf("Pushed %s to %s\n", before.Branch, r.client.Remote())
			}

			after, err := r.capture(ctx)
			if err != nil {
				return fmt.Errorf("refresh status: %w", err)
			}
			out.Render(format.Snapshot(after))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVarP(&push, "push", "p", false, "Push after committing")

	return cmd
}
