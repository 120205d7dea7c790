package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/output"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show branch, upstream and working tree state",
		Aliases: []string{"st"},
		GroupID: GroupWorkflow,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			snap, err := r.capture(ctx)
			if err != nil {
				return err
			}
			out.Render(format.Snapshot(snap))

			if !snap.Dirty {
				return nil
			}
			entries, err := r.client.Status(ctx)
			if err != nil {
				return err
			}
			out.Println()
			out.Render(format.Changes(entries))
			return nil
		},
	}

	return cmd
}
