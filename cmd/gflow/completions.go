package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/git"
)

// completeBranches completes local branch names of the current repository.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()

	client := git.New(config.WorkDirFromContext(ctx), "")
	branches, err := client.ListBranches(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, b := range branches {
		if strings.HasPrefix(b, toComplete) {
			matches = append(matches, b)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
