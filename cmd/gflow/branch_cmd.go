package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/format"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
	"github.com/raphi011/gflow/internal/vcs"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Short:   "Create, list and delete branches",
		Aliases: []string{"br"},
		GroupID: GroupWorkflow,
		Example: `  gflow branch new feature/login         # Branch off HEAD and switch to it
  gflow branch new hotfix --from main     # Branch off main
  gflow branch list
  gflow branch delete feature/login --remote`,
	}

	cmd.AddCommand(newBranchNewCmd())
	cmd.AddCommand(newBranchListCmd())
	cmd.AddCommand(newBranchDeleteCmd())

	return cmd
}

func newBranchNewCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a branch and switch to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			if r.client.BranchExists(ctx, name) {
				return fmt.Errorf("branch %s already exists", name)
			}
			if err := r.client.CreateAndSwitch(ctx, name, from); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Switched to new branch %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start point (default: HEAD)")
	cmd.RegisterFlagCompletionFunc("from", completeBranches)

	return cmd
}

func newBranchListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List local branches",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			branches, err := r.client.ListBranches(ctx)
			if err != nil {
				return err
			}
			current, err := r.client.CurrentBranch(ctx)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Render(format.Branches(branches, current))
			return nil
		},
	}

	return cmd
}

func newBranchDeleteCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete a branch",
		Aliases:           []string{"rm"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			current, err := r.client.CurrentBranch(ctx)
			if err != nil {
				return err
			}
			if name == current {
				return fmt.Errorf("cannot delete %s: it is checked out", name)
			}
			if name == r.cfg.ProtectedBranch {
				return fmt.Errorf("cannot delete %s: it is the protected branch", name)
			}

			if err := r.client.DeleteBranch(ctx, name, vcs.DeleteOptions{Local: true, Remote: remote}); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Deleted branch %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Also delete the branch on the remote")

	return cmd
}
