package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Profiles collapse the basic/working/ultimate workflow variants into
// capability sets.
const (
	ProfileBasic    = "basic"
	ProfileWorking  = "working"
	ProfileUltimate = "ultimate"
)

const (
	DefaultRemote          = "origin"
	DefaultProtectedBranch = "main"
	DefaultRulesFile       = ".gflow-rules.yaml"
)

// Capabilities selects which analyses and operations are available.
type Capabilities struct {
	Compatibility bool `toml:"compatibility"`
	Conflicts     bool `toml:"conflicts"`
	Divergence    bool `toml:"divergence"`
	Replace       bool `toml:"replace"`
	CleanupSource bool `toml:"cleanup_source"`
}

// Analysis reports whether any pre-merge analysis is enabled.
func (c Capabilities) Analysis() bool {
	return c.Compatibility || c.Conflicts || c.Divergence
}

// ProfileCapabilities returns the capability set of a named profile.
// Unknown or empty names resolve to ultimate.
func ProfileCapabilities(profile string) Capabilities {
	switch profile {
	case ProfileBasic:
		return Capabilities{}
	case ProfileWorking:
		return Capabilities{Compatibility: true, Conflicts: true}
	default:
		return Capabilities{
			Compatibility: true,
			Conflicts:     true,
			Divergence:    true,
			Replace:       true,
			CleanupSource: true,
		}
	}
}

// Features holds per-capability overrides of the profile.
// nil means "use the profile's value".
type Features struct {
	Compatibility *bool `toml:"compatibility"`
	Conflicts     *bool `toml:"conflicts"`
	Divergence    *bool `toml:"divergence"`
	Replace       *bool `toml:"replace"`
	CleanupSource *bool `toml:"cleanup_source"`
}

// apply overlays the set fields of f onto caps.
func (f Features) apply(caps Capabilities) Capabilities {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&caps.Compatibility, f.Compatibility)
	set(&caps.Conflicts, f.Conflicts)
	set(&caps.Divergence, f.Divergence)
	set(&caps.Replace, f.Replace)
	set(&caps.CleanupSource, f.CleanupSource)
	return caps
}

// overlay returns f with every field set in o replacing f's.
func (f Features) overlay(o Features) Features {
	pick := func(a, b *bool) *bool {
		if b != nil {
			return b
		}
		return a
	}
	return Features{
		Compatibility: pick(f.Compatibility, o.Compatibility),
		Conflicts:     pick(f.Conflicts, o.Conflicts),
		Divergence:    pick(f.Divergence, o.Divergence),
		Replace:       pick(f.Replace, o.Replace),
		CleanupSource: pick(f.CleanupSource, o.CleanupSource),
	}
}

// ThemeConfig selects the UI color theme. Global config only.
type ThemeConfig struct {
	Name string `toml:"name"` // preset family, see ValidThemeNames
	Mode string `toml:"mode"` // "auto", "light" or "dark"
}

// Config holds the gflow configuration
type Config struct {
	Remote          string      `toml:"remote"`
	ProtectedBranch string      `toml:"protected_branch"`
	Profile         string      `toml:"profile"`
	RulesFile       string      `toml:"rules_file"` // relative paths resolve against the repo root
	Features        Features    `toml:"features"`
	Theme           ThemeConfig `toml:"theme"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Remote:          DefaultRemote,
		ProtectedBranch: DefaultProtectedBranch,
		Profile:         ProfileUltimate,
		RulesFile:       DefaultRulesFile,
	}
}

// Capabilities resolves the profile and feature overrides.
func (c *Config) Capabilities() Capabilities {
	return c.Features.apply(ProfileCapabilities(c.Profile))
}

// RulesPath returns the rules file location for a repository root.
func (c *Config) RulesPath(repoRoot string) string {
	if c.RulesFile == "" || filepath.IsAbs(c.RulesFile) {
		return c.RulesFile
	}
	return filepath.Join(repoRoot, c.RulesFile)
}

// effective is the shape printed by "gflow config show".
type effective struct {
	Remote          string       `toml:"remote"`
	ProtectedBranch string       `toml:"protected_branch"`
	Profile         string       `toml:"profile"`
	RulesFile       string       `toml:"rules_file"`
	Features        Capabilities `toml:"features"`
	Theme           ThemeConfig  `toml:"theme"`
}

// Encode writes the effective configuration as TOML, with every feature
// flag resolved.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	err := toml.NewEncoder(&buf).Encode(effective{
		Remote:          c.Remote,
		ProtectedBranch: c.ProtectedBranch,
		Profile:         c.Profile,
		RulesFile:       c.RulesFile,
		Features:        c.Capabilities(),
		Theme:           c.Theme,
	})
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

// ConfigPathEnv overrides the global config file location.
const ConfigPathEnv = "GFLOW_CONFIG"

// configPath returns the path to the config file
func configPath() (string, error) {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gflow", "config.toml"), nil
}

// Load reads config from ~/.config/gflow/config.toml (or $GFLOW_CONFIG).
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(&cfg, path); err != nil {
		return Default(), err
	}
	return cfg, nil
}

const defaultConfig = `# gflow configuration

# Remote that backups, replacements and pushes go to
remote = "origin"

# Branch that "gflow replace" never deletes after replacing it
protected_branch = "main"

# Capability profile
#   basic    - plain merge, no analysis, no replace
#   working  - compatibility and conflict analysis before merging
#   ultimate - everything, including divergence analysis and safe replace
profile = "ultimate"

# Extra analysis rules (doublestar globs and declaration regexps).
# Relative paths resolve against the repository root.
# rules_file = ".gflow-rules.yaml"

# Per-feature overrides of the profile
# [features]
# compatibility = true
# conflicts = true
# divergence = true
# replace = true
# cleanup_source = true   # offer to delete the source branch after replace

# UI colors
# [theme]
# name = "default"   # none, default, nord or catppuccin
# mode = "auto"      # auto, light or dark
`

// Init creates a default config file at ~/.config/gflow/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	return path, writeTemplate(path, defaultConfig, force)
}

func writeTemplate(path, content string, force bool) error {
	// Check if file already exists (skip if force)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
