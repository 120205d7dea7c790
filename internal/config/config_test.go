package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want origin", cfg.Remote)
	}
	if cfg.ProtectedBranch != "main" {
		t.Errorf("ProtectedBranch = %q, want main", cfg.ProtectedBranch)
	}
	if got := cfg.Capabilities(); got != ProfileCapabilities(ProfileUltimate) {
		t.Errorf("Capabilities() = %+v, want ultimate", got)
	}
}

func TestProfileCapabilities(t *testing.T) {
	t.Parallel()
	tests := []struct {
		profile string
		want    Capabilities
	}{
		{ProfileBasic, Capabilities{}},
		{ProfileWorking, Capabilities{Compatibility: true, Conflicts: true}},
		{ProfileUltimate, Capabilities{Compatibility: true, Conflicts: true, Divergence: true, Replace: true, CleanupSource: true}},
		{"", Capabilities{Compatibility: true, Conflicts: true, Divergence: true, Replace: true, CleanupSource: true}},
	}
	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			t.Parallel()
			if got := ProfileCapabilities(tt.profile); got != tt.want {
				t.Errorf("ProfileCapabilities(%q) = %+v, want %+v", tt.profile, got, tt.want)
			}
		})
	}

	if ProfileCapabilities(ProfileBasic).Analysis() {
		t.Error("basic profile should not run analysis")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("LoadFile(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
remote = "upstream"
profile = "working"

[features]
divergence = true
conflicts = false
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Remote != "upstream" {
		t.Errorf("Remote = %q, want upstream", cfg.Remote)
	}
	if cfg.ProtectedBranch != "main" {
		t.Errorf("ProtectedBranch = %q, want default main", cfg.ProtectedBranch)
	}
	want := Capabilities{Compatibility: true, Divergence: true}
	if got := cfg.Capabilities(); got != want {
		t.Errorf("Capabilities() = %+v, want %+v", got, want)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad profile", `profile = "deluxe"`, `invalid profile "deluxe"`},
		{"bad remote", `remote = "my remote"`, "must not contain whitespace"},
		{"bad toml", `remote = `, "failed to parse config file"},
		{"bad theme", "[theme]\nname = \"solarized\"", `invalid theme name "solarized"`},
		{"bad theme mode", "[theme]\nmode = \"dim\"", `invalid theme mode "dim"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, `protected_branch = "develop"`)
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProtectedBranch != "develop" {
		t.Errorf("ProtectedBranch = %q, want develop", cfg.ProtectedBranch)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gflow", "config.toml")
	t.Setenv(ConfigPathEnv, path)

	got, err := Init(false)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got != path {
		t.Errorf("Init() path = %q, want %q", got, path)
	}

	// The template must load back to the defaults.
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(template) error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("template loads as %+v, want defaults", cfg)
	}

	if _, err := Init(false); err == nil {
		t.Error("Init() without force should refuse to overwrite")
	}
	if _, err := Init(true); err != nil {
		t.Errorf("Init(force) error = %v", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()
	off := false
	cfg := Default()
	cfg.Features.Replace = &off

	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded effective
	if _, err := toml.Decode(out, &decoded); err != nil {
		t.Fatalf("Encode() produced invalid TOML: %v\n%s", err, out)
	}
	if decoded.Features.Replace {
		t.Error("encoded features.replace = true, want resolved false")
	}
	if !decoded.Features.Divergence {
		t.Error("encoded features.divergence = false, want profile default true")
	}
	if decoded.Remote != "origin" {
		t.Errorf("encoded remote = %q, want origin", decoded.Remote)
	}
}

func TestRulesPath(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if got := cfg.RulesPath("/repo"); got != filepath.Join("/repo", DefaultRulesFile) {
		t.Errorf("RulesPath() = %q", got)
	}
	cfg.RulesFile = "/etc/gflow/rules.yaml"
	if got := cfg.RulesPath("/repo"); got != "/etc/gflow/rules.yaml" {
		t.Errorf("RulesPath(abs) = %q", got)
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %s, want %s", tt.opts, got, tt.want)
		}
	}
}
