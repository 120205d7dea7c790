// Package config handles loading and validation of gflow configuration.
//
// Configuration is read from ~/.config/gflow/config.toml (or the file named by
// GFLOW_CONFIG) and may be overridden per repository by a .gflow.toml at the
// repository root.
//
// # Configuration Sources (highest priority first)
//
//   - .gflow.toml in the repository root
//   - Global config file settings
//   - Default values
//
// # Key Settings
//
//   - remote: Remote for backups, replacements and pushes (default: "origin")
//   - protected_branch: Branch replace never deletes (default: "main")
//   - profile: "basic", "working" or "ultimate" (default: "ultimate")
//   - rules_file: Extra analysis rules in YAML (default: ".gflow-rules.yaml")
//
// # Features
//
// The [features] table overrides single capabilities of the profile:
//
//	profile = "working"
//	[features]
//	divergence = true
//
// Unset keys keep the profile's value. Use [Config.Capabilities] to resolve
// the effective set.
package config
