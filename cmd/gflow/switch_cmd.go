package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/ui/prompt"
)

// maxCandidates caps the branches listed when a name is ambiguous.
const maxCandidates = 10

func newSwitchCmd() *cobra.Command {
	var stash bool

	cmd := &cobra.Command{
		Use:               "switch <branch>",
		Short:             "Switch to a branch, matching its name fuzzily",
		Aliases:           []string{"sw"},
		GroupID:           GroupWorkflow,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		Long: `Switch to a local branch.

An exact name wins. Otherwise the name is matched fuzzily against local
branches: a single match is used directly, several matches are offered in a
list (or reported when not running in a terminal).

A dirty working tree blocks the switch unless --stash is given, which stashes
all changes (including untracked files) first.`,
		Example: `  gflow switch main
  gflow switch login        # matches feature/login
  gflow switch main --stash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			r, err := openRepo(ctx)
			if err != nil {
				return err
			}
			branches, err := r.client.ListBranches(ctx)
			if err != nil {
				return err
			}

			target, err := resolveBranch(args[0], branches, isInteractive())
			if err != nil {
				return err
			}
			if target == "" {
				return nil
			}

			current, err := r.client.CurrentBranch(ctx)
			if err != nil {
				return err
			}
			if target == current {
				l.Printf("Already on %s\n", target)
				return nil
			}

			dirty, err := r.client.IsDirty(ctx)
			if err != nil {
				return err
			}
			if dirty {
				if !stash {
					return fmt.Errorf("cannot switch to %s: working tree has uncommitted changes (use --stash)", target)
				}
				n, err := r.client.Stash(ctx, "gflow: switch from "+current)
				if err != nil {
					return err
				}
				l.Printf("Stashed %d changed paths (restore with: gflow stash pop)\n", n)
			}

			if err := r.client.SwitchBranch(ctx, target); err != nil {
				return err
			}
			l.Printf("Switched to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stash, "stash", false, "Stash uncommitted changes before switching")

	return cmd
}

// resolveBranch maps a typed name to a local branch. An empty result with a
// nil error means the user cancelled the selection.
func resolveBranch(name string, branches []string, interactive bool) (string, error) {
	if slices.Contains(branches, name) {
		return name, nil
	}

	matches := fuzzy.Find(name, branches)
	switch {
	case len(matches) == 0:
		return "", fmt.Errorf("no branch matches %q", name)
	case len(matches) == 1:
		return matches[0].Str, nil
	}

	candidates := make([]string, 0, min(len(matches), maxCandidates))
	for _, m := range matches[:min(len(matches), maxCandidates)] {
		candidates = append(candidates, m.Str)
	}

	if !interactive {
		return "", fmt.Errorf("%q is ambiguous: %s", name, strings.Join(candidates, ", "))
	}
	res, err := prompt.Select(fmt.Sprintf("Branches matching %q", name), candidates)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", nil
	}
	return res.Value, nil
}
