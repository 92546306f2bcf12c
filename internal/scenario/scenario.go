// Package scenario loads scenario files, which name a set of sources and the
// comprehensions evaluated over them, and runs them.
//
// A scenario is written either in YAML:
//
//	seed: 7
//	sources:
//	  - name: numbers
//	    kind: range
//	    start: 1
//	    end: 5
//	comprehensions:
//	  - name: squares
//	    expr: "[x * x | x <- numbers]"
//
// or in HCL:
//
//	seed = 7
//	source "range" "numbers" {
//	  start = 1
//	  end   = 5
//	}
//	comprehension "squares" {
//	  expr = "[x * x | x <- numbers]"
//	}
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/sources"
)

// Scenario is one loaded scenario file.
type Scenario struct {
	Path           string
	Seed           *int64
	Sources        []sources.Spec
	Comprehensions []Comprehension
}

// Comprehension is either a single comprehension expression or the
// structured parts of one.
type Comprehension struct {
	Name string
	Expr string

	Generators []Generator
	Filters    []string // see every generator
	Body       string
	Uniq       bool
	Into       string
	Reduce     string
}

// Generator is one structured generator. Where filters only see this
// generator and the ones before it.
type Generator struct {
	Pattern string
	Source  string
	Where   []string
}

// Dir is the directory relative source paths are resolved against.
func (s *Scenario) Dir() string {
	return filepath.Dir(s.Path)
}

// Load reads a scenario file, picking the format from its extension.
func Load(path string) (*Scenario, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		s   *Scenario
		err error
	)
	switch {
	case hasExt(config.YAMLExtensions, ext):
		s, err = loadYAML(path)
	case hasExt(config.HCLExtensions, ext):
		s, err = loadHCL(path)
	default:
		return nil, fmt.Errorf("%s: unknown scenario format %q", path, ext)
	}
	if err != nil {
		return nil, err
	}
	s.Path = path
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

func (s *Scenario) validate() error {
	names := make(map[string]string)
	claim := func(name, what string) error {
		if name == "" {
			return fmt.Errorf("%s without a name", what)
		}
		if prev, ok := names[name]; ok {
			return fmt.Errorf("%s %q already declared as a %s", what, name, prev)
		}
		names[name] = what
		return nil
	}
	for _, src := range s.Sources {
		if err := claim(src.Name, "source"); err != nil {
			return err
		}
	}
	for _, c := range s.Comprehensions {
		if err := claim(c.Name, "comprehension"); err != nil {
			return err
		}
		if c.Expr != "" && len(c.Generators) > 0 {
			return fmt.Errorf("comprehension %q: expr and generators are exclusive", c.Name)
		}
		if c.Expr == "" && len(c.Generators) == 0 {
			return fmt.Errorf("comprehension %q: needs expr or generators", c.Name)
		}
	}
	return nil
}
