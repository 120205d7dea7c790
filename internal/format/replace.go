package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/gflow/internal/replace"
	"github.com/raphi011/gflow/internal/ui/static"
	"github.com/raphi011/gflow/internal/ui/styles"
	"github.com/raphi011/gflow/internal/vcs"
)

// maxSubjectWidth truncates commit subjects in impact tables.
const maxSubjectWidth = 60

// Impact renders what replacing target with source would change.
func Impact(source, target string, imp *replace.Impact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", styles.TitleStyle.Render(fmt.Sprintf("Replace %s with %s", target, source)))

	if len(imp.Lost) > 0 {
		fmt.Fprintf(&b, "%s\n", styles.ErrorStyle.Render(
			fmt.Sprintf("%s only on %s (kept on the backup branch):", plural(len(imp.Lost), "commit"), target)))
		b.WriteString(Commits(imp.Lost))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", styles.SuccessStyle.Render(fmt.Sprintf("No commits on %s would be lost.", target)))
	}

	if len(imp.Gained) > 0 {
		fmt.Fprintf(&b, "%s\n", styles.SuccessStyle.Render(
			fmt.Sprintf("%s from %s:", plural(len(imp.Gained), "commit"), source)))
		b.WriteString(Commits(imp.Gained))
		b.WriteString("\n")
	}

	remote := imp.RemoteTip
	if remote == "" {
		remote = "not published"
	} else {
		remote = shortHash(remote)
	}
	summary := fmt.Sprintf("backup  %s\nremote  %s at %s", imp.Backup, target, remote)
	b.WriteString(styles.RoundedBorder.Render(summary))
	b.WriteString("\n")
	return b.String()
}

// Commits renders commits as a hash/subject/author table indented under a heading.
func Commits(commits []vcs.Commit) string {
	rows := make([][]string, 0, len(commits))
	for _, c := range commits {
		rows = append(rows, []string{
			shortHash(c.Hash),
			ansi.Truncate(c.Subject, maxSubjectWidth, "…"),
			c.Author,
		})
	}
	return static.RenderIndented(2, []string{"COMMIT", "SUBJECT", "AUTHOR"}, rows)
}

// ReplaceWarning is shown before the typed confirmation.
func ReplaceWarning(source, target, phrase string) string {
	msg := fmt.Sprintf("This force-updates %s on the remote to %s.\nType %s to continue.",
		target, source, styles.Bold.Render(phrase))
	return styles.DangerBorder.Render(msg) + "\n"
}

// ReplaceStatus renders the steps an operation has completed.
func ReplaceStatus(st replace.Status) string {
	var b strings.Builder
	for _, step := range st.Steps {
		fmt.Fprintf(&b, "%s %s\n", styles.SuccessStyle.Render("✓"), step)
	}
	if st.Backup != "" {
		fmt.Fprintf(&b, "%s\n", styles.MutedStyle.Render("backup: "+st.Backup))
	}
	return b.String()
}

// StepError explains a failed replace: what failed, how far it got, and
// where the old target is kept.
func StepError(e *replace.StepError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s failed: %v\n", styles.ErrorStyle.Render("✗"), e.Step, e.Err)
	fmt.Fprintf(&b, "  last completed step: %s\n", e.LastCompleted)
	if e.Backup != "" {
		fmt.Fprintf(&b, "  backup branch: %s\n", styles.Bold.Render(e.Backup))
		fmt.Fprintf(&b, "  %s\n", styles.MutedStyle.Render("restore with: git push --force <remote> "+e.Backup+":<target>"))
	} else {
		fmt.Fprintf(&b, "  %s\n", styles.MutedStyle.Render("no backup was created; nothing on the remote changed"))
	}
	return b.String()
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
