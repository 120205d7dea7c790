package static

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"BRANCH"}, nil); got != "" {
		t.Errorf("RenderTable() with no rows = %q, want empty", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	t.Parallel()

	got := ansi.Strip(RenderTable(
		[]string{"STEP", "STATUS"},
		[][]string{
			{"backup-created", "done"},
			{"remote-overwritten", "failed"},
		},
	))

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), got)
	}

	col := strings.Index(lines[2], "failed")
	if col < 0 {
		t.Fatalf("row missing status:\n%s", got)
	}
	if strings.Index(lines[1], "done") != col {
		t.Errorf("status column not aligned:\n%s", got)
	}
	if !strings.HasPrefix(lines[0], "STEP") {
		t.Errorf("header missing:\n%s", got)
	}
}

func TestRenderIndented(t *testing.T) {
	t.Parallel()

	got := ansi.Strip(RenderIndented(4, []string{"REF", "MESSAGE"}, [][]string{
		{"stash@{0}", "wip"},
		{"stash@{1}", "a much longer message"},
	}))

	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if !strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "     ") {
			t.Errorf("line not indented by 4: %q", line)
		}
		if strings.HasSuffix(line, " ") {
			t.Errorf("trailing whitespace: %q", line)
		}
	}
}
