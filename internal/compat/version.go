package compat

import (
	"strconv"
	"strings"
)

// leadingMajor extracts the first numeric component of a version
// constraint: "^1.2.3" -> 1, ">=2.0,<3" -> 2, "v0.4.1" -> 0.
// Constraints without a number ("*", "latest", git URLs) report false.
func leadingMajor(version string) (int, bool) {
	v := strings.TrimSpace(version)
	start := strings.IndexFunc(v, isDigit)
	if start < 0 {
		return 0, false
	}
	// Letters before the number mean this is not a plain constraint
	// (e.g. "git+https://host/x.git#v1").
	if prefix := v[:start]; strings.ContainsFunc(prefix, isVersionNoise) {
		return 0, false
	}
	end := start
	for end < len(v) && isDigit(rune(v[end])) {
		end++
	}
	n, err := strconv.Atoi(v[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isVersionNoise reports characters that may not precede the number of a
// version constraint. Operators, whitespace and a "v" prefix are allowed.
func isVersionNoise(r rune) bool {
	switch {
	case strings.ContainsRune("^~<>=!* v", r):
		return false
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == ':', r == '/':
		return true
	}
	return false
}

// majorChanged reports whether two constraints disagree on the leading
// version component. Unparseable constraints never count as a change.
func majorChanged(from, to string) bool {
	a, ok := leadingMajor(from)
	if !ok {
		return false
	}
	b, ok := leadingMajor(to)
	if !ok {
		return false
	}
	return a != b
}
