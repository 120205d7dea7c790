package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// MinVersion is the oldest git gflow runs against; `branch --show-current`
// appeared in 2.22.
var MinVersion = Version{Major: 2, Minor: 22}

// Version is a git release number.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// CheckGit verifies that git is in PATH and at least MinVersion.
func CheckGit(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	output, err := outputGit(ctx, "", "version")
	if err != nil {
		return fmt.Errorf("failed to get git version: %w", err)
	}
	v, err := parseVersion(string(output))
	if err != nil {
		return err
	}
	if v.Less(MinVersion) {
		return fmt.Errorf("git %s is too old: gflow needs %d.%d or newer", v, MinVersion.Major, MinVersion.Minor)
	}
	return nil
}

// parseVersion reads `git version` output such as "git version 2.39.3 (Apple Git-146)".
func parseVersion(output string) (Version, error) {
	fields := strings.Fields(output)
	if len(fields) < 3 || fields[0] != "git" || fields[1] != "version" {
		return Version{}, fmt.Errorf("unexpected git version output %q", strings.TrimSpace(output))
	}

	var v Version
	parts := strings.SplitN(fields[2], ".", 4)
	for i, dst := range []*int{&v.Major, &v.Minor, &v.Patch} {
		if i >= len(parts) {
			break
		}
		// Release candidates print e.g. "2.45.0-rc1"
		digits, _, _ := strings.Cut(parts[i], "-")
		n, err := strconv.Atoi(digits)
		if err != nil {
			if i == 0 {
				return Version{}, fmt.Errorf("unexpected git version %q", fields[2])
			}
			break
		}
		*dst = n
	}
	return v, nil
}
