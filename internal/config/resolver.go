package config

import "path/filepath"

// ConfigResolver merges a repository's .gflow.toml over the global config.
// Results are cached per repository root for the lifetime of one command.
type ConfigResolver struct {
	global *Config
	repos  map[string]*Config
}

// NewResolver creates a resolver over global.
func NewResolver(global *Config) *ConfigResolver {
	return &ConfigResolver{global: global, repos: make(map[string]*Config)}
}

// ConfigForRepo returns the effective config for the repository at root.
// The merged result is validated again so a local override cannot smuggle
// in a value the global file would have rejected.
func (r *ConfigResolver) ConfigForRepo(root string) (*Config, error) {
	if cfg, ok := r.repos[root]; ok {
		return cfg, nil
	}

	local, err := LoadLocal(root)
	if err != nil {
		return nil, err
	}
	cfg := MergeLocal(r.global, local)
	if local != nil {
		if err := validate(cfg, filepath.Join(root, LocalConfigFileName)); err != nil {
			return nil, err
		}
	}

	r.repos[root] = cfg
	return cfg, nil
}

// Global returns the global config without repository overrides.
func (r *ConfigResolver) Global() *Config {
	return r.global
}
