package compat

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// PathRule classifies paths matching a doublestar glob.
type PathRule struct {
	Pattern string `yaml:"pattern"`
	Kind    Kind   `yaml:"kind"`
}

// LineRule flags diff lines that look like declarations.
type LineRule struct {
	Name   string
	Regexp *regexp.Regexp
	Kind   Kind
}

// RuleSet is the ordered set of predicates the analyzer evaluates.
// Adding rules never changes which checks run, only what they match.
type RuleSet struct {
	Paths []PathRule
	Lines []LineRule
}

// pathKinds are the kinds a PathRule may carry.
var pathKinds = []Kind{KindSource, KindSensitive, KindConfigChange, KindDatabaseChange}

var defaultPaths = []PathRule{
	{"**/*.{go,py,rb,php,java,kt,kts,scala,swift,m,mm,c,h,cc,cpp,hpp,cs,rs,dart}", KindSource},
	{"**/*.{js,jsx,mjs,cjs,ts,tsx,vue,svelte}", KindSource},

	{"**/__init__.py", KindSensitive},
	{"**/{setup.py,setup.cfg,manage.py,wsgi.py,asgi.py}", KindSensitive},
	{"**/{Dockerfile,Makefile,Procfile,Rakefile}", KindSensitive},
	{"**/{config,settings,conf}/**", KindSensitive},
	{"**/*{config,settings}*", KindSensitive},
	{"**/.env", KindSensitive},
	{"**/.env.*", KindSensitive},

	{"**/{config,settings,conf}/**", KindConfigChange},
	{"**/*{config,settings}*", KindConfigChange},
	{"**/*.{ini,cfg,conf,properties,env}", KindConfigChange},
	{"**/.env", KindConfigChange},
	{"**/.env.*", KindConfigChange},
	{"**/{docker-compose,compose}.{yml,yaml}", KindConfigChange},

	{"**/{migrations,migrate,alembic}/**", KindDatabaseChange},
	{"**/*migration*", KindDatabaseChange},
	{"**/{schema,structure}.{rb,sql,prisma,graphql}", KindDatabaseChange},
	{"**/*.{sql,ddl,prisma}", KindDatabaseChange},
}

var defaultDeclarations = []struct{ name, expr string }{
	{"func", `^\s*func\s+`},
	{"function", `\bfunction\s+\w+\s*\(`},
	{"def", `^\s*(async\s+)?def\s+\w+`},
	{"fn", `^\s*(pub(\([^)]*\))?\s+)?(async\s+)?fn\s+\w+`},
	{"class", `^\s*(export\s+)?(default\s+)?(public\s+|private\s+|protected\s+)?(abstract\s+|final\s+|static\s+)*class\s+\w+`},
	{"interface", `^\s*(export\s+)?(public\s+)?interface\s+\w+`},
	{"struct", `^\s*(pub\s+)?struct\s+\w+|^\s*type\s+\w+\s+(struct|interface)\b`},
	{"export", `^\s*export\s+(default\s+)?(const|let|var|async|type|enum)\b`},
	{"method", `^\s*(public|protected)\s+(static\s+)?[\w<>\[\],.?]+\s+\w+\s*\(`},
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *RuleSet {
	rs := &RuleSet{Paths: slices.Clone(defaultPaths)}
	for _, d := range defaultDeclarations {
		rs.Lines = append(rs.Lines, LineRule{Name: d.name, Regexp: regexp.MustCompile(d.expr), Kind: KindAPIChange})
	}
	return rs
}

// rulesFile is the YAML shape of a rules file.
type rulesFile struct {
	Rules        []PathRule `yaml:"rules"`
	Declarations []struct {
		Name   string `yaml:"name"`
		Regexp string `yaml:"regexp"`
	} `yaml:"declarations"`
}

// LoadRules returns the default rules extended with those in path.
// A missing file yields the defaults.
func LoadRules(path string) (*RuleSet, error) {
	rs := DefaultRules()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rs, nil
		}
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	for i, r := range file.Rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return nil, fmt.Errorf("rules[%d]: invalid pattern %q in %s", i, r.Pattern, path)
		}
		if !slices.Contains(pathKinds, r.Kind) {
			return nil, fmt.Errorf("rules[%d]: invalid kind %q in %s", i, r.Kind, path)
		}
		rs.Paths = append(rs.Paths, r)
	}
	for i, d := range file.Declarations {
		re, err := regexp.Compile(d.Regexp)
		if err != nil {
			return nil, fmt.Errorf("declarations[%d] %q in %s: %w", i, d.Name, path, err)
		}
		rs.Lines = append(rs.Lines, LineRule{Name: d.Name, Regexp: re, Kind: KindAPIChange})
	}
	return rs, nil
}

// Matches reports whether any rule of the given kind matches path.
func (rs *RuleSet) Matches(path string, kind Kind) bool {
	for _, r := range rs.Paths {
		if r.Kind != kind {
			continue
		}
		if ok, err := doublestar.Match(r.Pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Declaration returns the name of the first line rule matching line.
func (rs *RuleSet) Declaration(line string) (string, bool) {
	for _, r := range rs.Lines {
		if r.Regexp.MatchString(line) {
			return r.Name, true
		}
	}
	return "", false
}
