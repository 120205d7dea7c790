package format

import (
	"fmt"
	"strings"

	"github.com/raphi011/gflow/internal/analysis"
	"github.com/raphi011/gflow/internal/compat"
	"github.com/raphi011/gflow/internal/conflict"
	"github.com/raphi011/gflow/internal/divergence"
	"github.com/raphi011/gflow/internal/ui/styles"
)

// Analysis renders every section of a composite report followed by the
// verdict.
func Analysis(r *analysis.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", styles.TitleStyle.Render(fmt.Sprintf("Merging %s into %s", r.Source, r.Target)))

	if r.Compat != nil {
		b.WriteString(Compat(r.Compat))
		b.WriteString("\n")
	}
	if r.Conflicts != nil {
		b.WriteString(Conflicts(r.Conflicts))
		b.WriteString("\n")
	}
	if r.Divergence != nil {
		b.WriteString(Divergence(r.Divergence))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s %s\n", styles.Bold.Render("Verdict:"), Verdict(r.Verdict()))
	return b.String()
}

// Verdict renders a verdict in its severity color.
func Verdict(v analysis.Verdict) string {
	switch v {
	case analysis.VerdictClean:
		return styles.SuccessStyle.Render(string(v))
	case analysis.VerdictCaution:
		return styles.WarningStyle.Render(string(v))
	default:
		return styles.ErrorStyle.Render(string(v))
	}
}

// Compat renders a compatibility report.
func Compat(r *compat.Report) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Compatibility"))
	b.WriteString("\n")

	if !r.HasIssues() {
		fmt.Fprintf(&b, "  %s no compatibility risks found\n", styles.SuccessStyle.Render("✓"))
	}
	for _, s := range r.Signals {
		fmt.Fprintf(&b, "  %s %s: %s\n", severityMark(s.Severity), styles.Bold.Render(string(s.Kind)), s.Explanation)
		details := s.Details
		if len(details) == 0 {
			details = s.Files
		}
		for _, d := range details {
			fmt.Fprintf(&b, "      %s\n", styles.MutedStyle.Render(d))
		}
	}
	for _, n := range r.Notes {
		fmt.Fprintf(&b, "  %s\n", styles.InfoStyle.Render("note: "+n))
	}
	return b.String()
}

func severityMark(s compat.Severity) string {
	if s == compat.SeverityHigh {
		return styles.ErrorStyle.Render("✗")
	}
	return styles.WarningStyle.Render("!")
}

// Conflicts renders a merge prediction.
func Conflicts(p *conflict.Prediction) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Conflicts"))
	b.WriteString("\n")

	if p.HasConflicts {
		fmt.Fprintf(&b, "  %s merge will conflict\n", styles.ErrorStyle.Render("✗"))
	} else {
		fmt.Fprintf(&b, "  %s merges cleanly\n", styles.SuccessStyle.Render("✓"))
	}
	b.WriteString(overlap(p.Files))
	return b.String()
}

// SimulationFailure renders the files a failed simulation still found.
func SimulationFailure(e *conflict.SimulationError) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Conflicts"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s could not simulate the merge: %v\n", styles.WarningStyle.Render("!"), e.Err)
	b.WriteString(overlap(e.Files))
	return b.String()
}

func overlap(files []string) string {
	if len(files) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %s\n", styles.MutedStyle.Render("changed on both sides:"))
	for _, f := range files {
		fmt.Fprintf(&b, "      %s\n", f)
	}
	return b.String()
}

// Divergence renders a divergence report and its recommendation.
func Divergence(r *divergence.Report) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Divergence"))
	b.WriteString("\n")

	c := r.Counts
	fmt.Fprintf(&b, "  %s is %d ahead and %d behind %s\n", r.Source, c.Ahead, c.Behind, r.Target)
	fmt.Fprintf(&b, "  %s\n", styles.MutedStyle.Render(fmt.Sprintf("%d files added, %d deleted", c.Added, c.Deleted)))

	if !r.SuggestReplace {
		fmt.Fprintf(&b, "  %s merge is appropriate\n", styles.SuccessStyle.Render("✓"))
		return b.String()
	}
	fmt.Fprintf(&b, "  %s consider replacing %s with %s instead of merging\n",
		styles.WarningStyle.Render("!"), r.Target, r.Source)
	for _, reason := range r.Reasons {
		fmt.Fprintf(&b, "      %s\n", styles.MutedStyle.Render(reason))
	}
	return b.String()
}
