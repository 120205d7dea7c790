package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
)

func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stash",
		Short:   "Stash and restore uncommitted changes",
		GroupID: GroupWorkflow,
		Example: `  gflow stash push -m "half-done refactor"
  gflow stash list
  gflow stash pop`,
	}

	cmd.AddCommand(newStashPushCmd())
	cmd.AddCommand(newStashPopCmd())
	cmd.AddCommand(newStashListCmd())

	return cmd
}

func newStashPushCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Stash all changes, including untracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			n, err := r.client.Stash(ctx, message)
			if err != nil {
				return err
			}
			if n == 0 {
				l.Println("Nothing to stash: working tree clean")
				return nil
			}
			l.Printf("Stashed %d changed paths\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Stash message")

	return cmd
}

func newStashPopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pop",
		Short: "Restore the most recent stash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			return r.client.StashPop(ctx)
		},
	}

	return cmd
}

func newStashListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List stashes",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			entries, err := r.client.StashList(ctx)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Render(format.Stashes(entries))
			return nil
		},
	}

	return cmd
}
