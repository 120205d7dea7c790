package compat

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// Manifests are the root-level dependency files compared between branches.
var Manifests = []string{
	"package.json",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"requirements.txt",
	"Pipfile",
	"Pipfile.lock",
	"pyproject.toml",
	"poetry.lock",
	"Gemfile",
	"Gemfile.lock",
	"go.mod",
	"go.sum",
	"Cargo.toml",
	"Cargo.lock",
	"composer.json",
	"composer.lock",
	"pom.xml",
	"build.gradle",
	"pubspec.yaml",
}

// dependencies maps a dependency name to its declared version constraint.
type dependencies map[string]string

// parseFunc extracts declared dependencies from a manifest.
type parseFunc func(data []byte) (dependencies, error)

var parsers = map[string]parseFunc{
	"package.json":     parseJSONManifest("dependencies", "devDependencies", "peerDependencies", "optionalDependencies"),
	"composer.json":    parseJSONManifest("require", "require-dev"),
	"Cargo.toml":       parseCargo,
	"pyproject.toml":   parsePyproject,
	"go.mod":           parseGoMod,
	"pubspec.yaml":     parsePubspec,
	"pnpm-lock.yaml":   parsePnpmLock,
	"requirements.txt": parseRequirements,
}

// parseManifest returns the dependencies of a structured manifest.
// ok is false for unstructured manifests and for content that fails to parse.
func parseManifest(name string, data []byte) (dependencies, bool) {
	parse, found := parsers[name]
	if !found {
		return nil, false
	}
	deps, err := parse(data)
	if err != nil {
		return nil, false
	}
	return deps, true
}

// majorChanges lists dependencies present on both sides whose leading
// version component differs, sorted by name.
func majorChanges(manifest string, from, to dependencies) []string {
	var lines []string
	for _, name := range slices.Sorted(maps.Keys(from)) {
		newer, ok := to[name]
		if !ok || !majorChanged(from[name], newer) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s %s -> %s (major version change)", manifest, name, from[name], newer))
	}
	return lines
}

func parseJSONManifest(sections ...string) parseFunc {
	return func(data []byte) (dependencies, error) {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		deps := make(dependencies)
		for _, section := range sections {
			raw, ok := doc[section]
			if !ok {
				continue
			}
			var entries map[string]string
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, fmt.Errorf("section %s: %w", section, err)
			}
			maps.Copy(deps, entries)
		}
		return deps, nil
	}
}

// tableVersion reads a version from the string-or-table form used by
// Cargo.toml, poetry and pubspec.yaml.
func tableVersion(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case map[string]any:
		s, ok := val["version"].(string)
		return s, ok
	}
	return "", false
}

func collectTable(deps dependencies, table map[string]any) {
	for name, v := range table {
		if version, ok := tableVersion(v); ok {
			deps[name] = version
		}
	}
}

func parseCargo(data []byte) (dependencies, error) {
	var doc struct {
		Dependencies      map[string]any `toml:"dependencies"`
		DevDependencies   map[string]any `toml:"dev-dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	deps := make(dependencies)
	collectTable(deps, doc.Dependencies)
	collectTable(deps, doc.DevDependencies)
	collectTable(deps, doc.BuildDependencies)
	return deps, nil
}

func parsePyproject(data []byte) (dependencies, error) {
	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	deps := make(dependencies)
	for _, req := range doc.Project.Dependencies {
		if name, version, ok := splitRequirement(req); ok {
			deps[name] = version
		}
	}
	collectTable(deps, doc.Tool.Poetry.Dependencies)
	collectTable(deps, doc.Tool.Poetry.DevDependencies)
	return deps, nil
}

func parseGoMod(data []byte) (dependencies, error) {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return nil, err
	}
	deps := make(dependencies, len(f.Require))
	for _, r := range f.Require {
		deps[r.Mod.Path] = r.Mod.Version
	}
	return deps, nil
}

func parsePubspec(data []byte) (dependencies, error) {
	var doc struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	deps := make(dependencies)
	collectTable(deps, doc.Dependencies)
	collectTable(deps, doc.DevDependencies)
	return deps, nil
}

func parsePnpmLock(data []byte) (dependencies, error) {
	type section map[string]any
	var doc struct {
		Dependencies    section `yaml:"dependencies"`
		DevDependencies section `yaml:"devDependencies"`
		Importers       map[string]struct {
			Dependencies    section `yaml:"dependencies"`
			DevDependencies section `yaml:"devDependencies"`
		} `yaml:"importers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	deps := make(dependencies)
	collectTable(deps, doc.Dependencies)
	collectTable(deps, doc.DevDependencies)
	if root, ok := doc.Importers["."]; ok {
		collectTable(deps, root.Dependencies)
		collectTable(deps, root.DevDependencies)
	}
	return deps, nil
}

func parseRequirements(data []byte) (dependencies, error) {
	deps := make(dependencies)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		if name, version, ok := splitRequirement(line); ok {
			deps[name] = version
		}
	}
	return deps, scanner.Err()
}

// splitRequirement splits a PEP 508 requirement such as
// "requests[socks]>=2.31; python_version>'3.8'" into name and constraint.
func splitRequirement(req string) (name, version string, ok bool) {
	if i := strings.Index(req, ";"); i >= 0 {
		req = req[:i]
	}
	req = strings.TrimSpace(req)
	i := strings.IndexAny(req, "<>=!~[( ")
	if i <= 0 {
		return "", "", false
	}
	name = strings.ToLower(req[:i])
	rest := req[i:]
	if j := strings.Index(rest, "]"); strings.HasPrefix(rest, "[") && j >= 0 {
		rest = rest[j+1:]
	}
	version = strings.Trim(strings.TrimSpace(rest), "()")
	if version == "" {
		return "", "", false
	}
	return name, version, true
}
