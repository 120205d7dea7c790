package log

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

func TestLogger_Modes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		verbose, quiet bool
		wantPrint      string
		wantDebug      string
		wantVerbose    bool
	}{
		{"default", false, false, "merged main\n", "", false},
		{"verbose", true, false, "merged main\n", "analysis source=a target=b\n", true},
		{"quiet", false, true, "", "", false},
		{"quiet wins over verbose", true, true, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var printed, debugged bytes.Buffer
			New(&printed, tt.verbose, tt.quiet).Printf("merged %s\n", "main")
			l := New(&debugged, tt.verbose, tt.quiet)
			l.Debug("analysis", "source", "a", "target", "b")

			if got := printed.String(); got != tt.wantPrint {
				t.Errorf("Printf wrote %q, want %q", got, tt.wantPrint)
			}
			if got := debugged.String(); got != tt.wantDebug {
				t.Errorf("Debug wrote %q, want %q", got, tt.wantDebug)
			}
			if l.IsVerbose() != tt.wantVerbose {
				t.Errorf("IsVerbose() = %v, want %v", l.IsVerbose(), tt.wantVerbose)
			}
		})
	}
}

func TestPrintln(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, false, false).Println("nothing", "to", "save")
	if got := buf.String(); got != "nothing to save\n" {
		t.Errorf("Println wrote %q", got)
	}
}

func TestDebug_DropsDanglingKey(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, true, false).Debug("fetch", "remote", "origin", "orphan")
	if got := buf.String(); got != "fetch remote=origin\n" {
		t.Errorf("Debug wrote %q", got)
	}
}

func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		dir     string
		want    string
	}{
		{"silent by default", false, "/repo", ""},
		{"with dir", true, "/repo", "[/repo] $ git merge-base main feature  (12ms)\n"},
		{"without dir", true, "", "$ git merge-base main feature  (12ms)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			done := New(&buf, tt.verbose, false).Command(tt.dir, "git", "merge-base", "main", "feature")
			done(12 * time.Millisecond)
			if got := buf.String(); got != tt.want {
				t.Errorf("Command wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, false, false)
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Error("FromContext did not return the attached logger")
	}
	if got := l.Writer(); got != &buf {
		t.Error("Writer() did not return the underlying writer")
	}

	fallback := FromContext(context.Background())
	if fallback.Writer() != io.Discard {
		t.Error("fallback logger should write to io.Discard")
	}
	fallback.Printf("dropped")
}
