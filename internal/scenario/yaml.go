package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/comprex/internal/marshal"
	"github.com/funvibe/comprex/internal/sources"
)

type yamlScenario struct {
	Seed           *int64              `yaml:"seed"`
	Sources        []yamlSource        `yaml:"sources"`
	Comprehensions []yamlComprehension `yaml:"comprehensions"`
}

type yamlSource struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Values yaml.Node `yaml:"values"`
	Start  int64     `yaml:"start"`
	End    int64     `yaml:"end"`
	Step   int64     `yaml:"step"`
	Expr   string    `yaml:"expr"`
	Sample string    `yaml:"sample"`
	Count  int       `yaml:"count"`
	Seed   *int64    `yaml:"seed"`
	Driver string    `yaml:"driver"`
	DSN    string    `yaml:"dsn"`
	Query  string    `yaml:"query"`
	Path   string    `yaml:"path"`
	Format string    `yaml:"format"`
}

type yamlComprehension struct {
	Name       string          `yaml:"name"`
	Expr       string          `yaml:"expr"`
	Generators []yamlGenerator `yaml:"generators"`
	Filters    []string        `yaml:"filters"`
	Body       string          `yaml:"body"`
	Uniq       bool            `yaml:"uniq"`
	Into       string          `yaml:"into"`
	Reduce     string          `yaml:"reduce"`
}

type yamlGenerator struct {
	Pattern string   `yaml:"pattern"`
	Source  string   `yaml:"source"`
	Where   []string `yaml:"where"`
}

func loadYAML(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return parseYAML(data, path)
}

func parseYAML(data []byte, path string) (*Scenario, error) {
	var raw yamlScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	s := &Scenario{Seed: raw.Seed}
	for _, src := range raw.Sources {
		spec := sources.Spec{
			Name:   src.Name,
			Kind:   src.Kind,
			Start:  src.Start,
			End:    src.End,
			Step:   src.Step,
			Expr:   src.Expr,
			Sample: src.Sample,
			Count:  src.Count,
			Seed:   src.Seed,
			Driver: src.Driver,
			DSN:    src.DSN,
			Query:  src.Query,
			Path:   src.Path,
			Format: src.Format,
		}
		if src.Values.Kind != 0 {
			v, err := marshal.FromYAML(&src.Values)
			if err != nil {
				return nil, fmt.Errorf("%s: source %s: %w", path, src.Name, err)
			}
			spec.Values = v
		}
		s.Sources = append(s.Sources, spec)
	}

	for _, c := range raw.Comprehensions {
		comp := Comprehension{
			Name:    c.Name,
			Expr:    c.Expr,
			Filters: c.Filters,
			Body:    c.Body,
			Uniq:    c.Uniq,
			Into:    c.Into,
			Reduce:  c.Reduce,
		}
		for _, g := range c.Generators {
			comp.Generators = append(comp.Generators, Generator(g))
		}
		s.Comprehensions = append(s.Comprehensions, comp)
	}
	return s, nil
}
