// Package static renders non-interactive terminal output: borderless
// tables used by the status, stash and replace reports.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/gflow/internal/ui/styles"
)

// columnGap separates columns.
const columnGap = 2

// RenderTable renders rows under bold headers with aligned columns and no
// borders. Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	return RenderIndented(0, headers, rows)
}

// RenderIndented is RenderTable with every line shifted right by indent
// spaces, for tables nested under a report section. Lines carry no trailing
// whitespace.
func RenderIndented(indent int, headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	last := len(headers) - 1
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle()
			if col < last {
				s = s.PaddingRight(columnGap)
			}
			if row == table.HeaderRow {
				s = s.Inherit(styles.Bold)
			}
			return s
		})

	prefix := strings.Repeat(" ", indent)
	var b strings.Builder
	for _, line := range strings.Split(t.String(), "\n") {
		b.WriteString(prefix)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}
