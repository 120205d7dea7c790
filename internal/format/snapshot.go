package format

import (
	"fmt"
	"strings"

	"github.com/raphi011/gflow/internal/git"
	"github.com/raphi011/gflow/internal/snapshot"
	"github.com/raphi011/gflow/internal/ui/static"
	"github.com/raphi011/gflow/internal/ui/styles"
)

// Snapshot renders the repository state as a short summary.
func Snapshot(s snapshot.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styles.MutedStyle.Render("repo  "), s.Root)

	branch := styles.AccentStyle.Render(s.Branch)
	if s.Detached() {
		branch = styles.WarningStyle.Render(s.Branch)
	}
	fmt.Fprintf(&b, "%s %s\n", styles.MutedStyle.Render("branch"), branch)

	switch {
	case s.Detached():
	case s.Upstream == "":
		fmt.Fprintf(&b, "%s %s\n", styles.MutedStyle.Render("track "), styles.MutedStyle.Render("no upstream"))
	default:
		fmt.Fprintf(&b, "%s %s %s\n", styles.MutedStyle.Render("track "), s.Upstream, aheadBehind(s.Ahead, s.Behind))
	}

	tree := styles.SuccessStyle.Render("clean")
	if s.Dirty {
		tree = styles.WarningStyle.Render("uncommitted changes")
	}
	fmt.Fprintf(&b, "%s %s\n", styles.MutedStyle.Render("tree  "), tree)

	if s.Unpushed {
		fmt.Fprintf(&b, "%s %s\n", styles.MutedStyle.Render("push  "),
			styles.WarningStyle.Render(plural(s.UnpushedCount, "unpushed commit")))
	}
	return b.String()
}

func aheadBehind(ahead, behind int) string {
	if ahead == 0 && behind == 0 {
		return styles.SuccessStyle.Render("up to date")
	}
	return styles.MutedStyle.Render(fmt.Sprintf("↑%d ↓%d", ahead, behind))
}

// Changes renders porcelain status entries as a table.
func Changes(entries []git.StatusEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strings.TrimSpace(e.Code), e.Path})
	}
	return static.RenderTable([]string{"STATUS", "PATH"}, rows)
}

// Branches lists local branches, marking current.
func Branches(names []string, current string) string {
	var b strings.Builder
	for _, name := range names {
		if name == current {
			fmt.Fprintf(&b, "* %s\n", styles.AccentStyle.Render(name))
			continue
		}
		fmt.Fprintf(&b, "  %s\n", name)
	}
	return b.String()
}

// Stashes renders the stash list.
func Stashes(entries []git.StashEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Ref, e.Message})
	}
	return static.RenderTable([]string{"REF", "MESSAGE"}, rows)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
