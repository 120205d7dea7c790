package compat

// Kind tags a risk signal, and classifies paths in a rule set.
type Kind string

// Signal kinds, in the order the analyzer emits them.
const (
	KindDeletedFiles       Kind = "deleted-files"
	KindDependencyMismatch Kind = "dependency-mismatch"
	KindConfigChange       Kind = "config-change"
	KindAPIChange          Kind = "api-change"
	KindDatabaseChange     Kind = "database-change"
)

// Path classes that feed other checks but never become signals of their own.
const (
	// KindSource marks source files: deletions are flagged and changes are
	// sampled for declaration edits.
	KindSource Kind = "source"
	// KindSensitive marks configuration and initialization files whose
	// deletion is flagged.
	KindSensitive Kind = "sensitive-deletion"
)

// Severity ranks a signal.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// Signal is one risk found between two branches.
type Signal struct {
	Kind        Kind
	Files       []string // discovery order, no duplicates
	Explanation string
	Severity    Severity
	Details     []string
}

// Report is the outcome of a compatibility analysis.
type Report struct {
	Source  string
	Target  string
	Signals []Signal
	// Notes are informational and do not count as issues.
	Notes []string
}

// HasIssues reports whether any signal was raised.
func (r *Report) HasIssues() bool {
	return len(r.Signals) > 0
}

// Signal returns the signal of the given kind, if raised.
func (r *Report) Signal(kind Kind) (Signal, bool) {
	for _, s := range r.Signals {
		if s.Kind == kind {
			return s, true
		}
	}
	return Signal{}, false
}

// fileSet collects paths in discovery order, dropping duplicates.
type fileSet struct {
	seen  map[string]bool
	paths []string
}

func (f *fileSet) add(path string) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[path] {
		return
	}
	f.seen[path] = true
	f.paths = append(f.paths, path)
}

func (f *fileSet) empty() bool {
	return len(f.paths) == 0
}
