package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-repo override file at the repository root.
const LocalConfigFileName = ".gflow.toml"

// LocalConfig holds per-repo configuration overrides from .gflow.toml.
// Empty strings and nil features indicate "not set" (inherit from global).
type LocalConfig struct {
	Remote          string   `toml:"remote"`
	ProtectedBranch string   `toml:"protected_branch"`
	Profile         string   `toml:"profile"`
	RulesFile       string   `toml:"rules_file"`
	Features        Features `toml:"features"`
}

// LoadLocal reads a per-repo .gflow.toml config from the given repo path.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(repoPath string) (*LocalConfig, error) {
	configFile := filepath.Join(repoPath, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	if err := validateEnum(local.Profile, "profile", ValidProfiles); err != nil {
		return nil, fmt.Errorf("%w in %s", err, configFile)
	}

	return &local, nil
}

// MergeLocal merges a local per-repo config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	merged := *global
	if local.Remote != "" {
		merged.Remote = local.Remote
	}
	if local.ProtectedBranch != "" {
		merged.ProtectedBranch = local.ProtectedBranch
	}
	if local.Profile != "" {
		merged.Profile = local.Profile
	}
	if local.RulesFile != "" {
		merged.RulesFile = local.RulesFile
	}
	merged.Features = global.Features.overlay(local.Features)
	return &merged
}

// defaultLocalConfig is the template for gflow config init --local
const defaultLocalConfig = `# gflow local config (per-repo overrides)
# Place this file at the root of the repository.
# Settings here override ~/.config/gflow/config.toml for this repo only.

# remote = "upstream"
# protected_branch = "develop"
# profile = "working"
# rules_file = ".gflow-rules.yaml"

# [features]
# divergence = false
`

// InitLocal writes the local config template into repoPath.
func InitLocal(repoPath string, force bool) (string, error) {
	path := filepath.Join(repoPath, LocalConfigFileName)
	return path, writeTemplate(path, defaultLocalConfig, force)
}
