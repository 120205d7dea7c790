package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidProfiles lists the accepted profile names.
var ValidProfiles = []string{ProfileBasic, ProfileWorking, ProfileUltimate}

// ValidThemeNames lists the theme preset families.
var ValidThemeNames = []string{"none", "default", "nord", "catppuccin"}

// ValidThemeModes lists the accepted theme modes.
var ValidThemeModes = []string{"auto", "light", "dark"}

// ValidateProfile validates a profile name against ValidProfiles.
// Exported for use in CLI flag validation.
func ValidateProfile(profile string) error {
	return validateEnum(profile, "profile", ValidProfiles)
}

func validate(cfg *Config, source string) error {
	if err := validateEnum(cfg.Profile, "profile", ValidProfiles); err != nil {
		return fmt.Errorf("%w in %s", err, source)
	}
	if err := validateEnum(cfg.Theme.Name, "theme name", ValidThemeNames); err != nil {
		return fmt.Errorf("%w in %s", err, source)
	}
	if err := validateEnum(cfg.Theme.Mode, "theme mode", ValidThemeModes); err != nil {
		return fmt.Errorf("%w in %s", err, source)
	}
	if strings.ContainsAny(cfg.Remote, " \t") {
		return fmt.Errorf("invalid remote %q in %s: must not contain whitespace", cfg.Remote, source)
	}
	if strings.ContainsAny(cfg.ProtectedBranch, " \t") {
		return fmt.Errorf("invalid protected_branch %q in %s: must not contain whitespace", cfg.ProtectedBranch, source)
	}

	// Use defaults for empty values
	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}
	if cfg.ProtectedBranch == "" {
		cfg.ProtectedBranch = DefaultProtectedBranch
	}
	if cfg.Profile == "" {
		cfg.Profile = ProfileUltimate
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
