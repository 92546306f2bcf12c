package scenario

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/funvibe/comprex/internal/marshal"
	"github.com/funvibe/comprex/internal/sources"
)

// hclScenario is the top-level structure of a scenario file for decoding.
type hclScenario struct {
	Seed           *int64              `hcl:"seed,optional"`
	Sources        []*hclSource        `hcl:"source,block"`
	Comprehensions []*hclComprehension `hcl:"comprehension,block"`
}

type hclSource struct {
	Kind   string    `hcl:"kind,label"`
	Name   string    `hcl:"name,label"`
	Values cty.Value `hcl:"values,optional"`
	Start  int64     `hcl:"start,optional"`
	End    int64     `hcl:"end,optional"`
	Step   int64     `hcl:"step,optional"`
	Expr   string    `hcl:"expr,optional"`
	Sample string    `hcl:"sample,optional"`
	Count  int       `hcl:"count,optional"`
	Seed   *int64    `hcl:"seed,optional"`
	Driver string    `hcl:"driver,optional"`
	DSN    string    `hcl:"dsn,optional"`
	Query  string    `hcl:"query,optional"`
	Path   string    `hcl:"path,optional"`
	Format string    `hcl:"format,optional"`
}

type hclComprehension struct {
	Name       string          `hcl:"name,label"`
	Expr       string          `hcl:"expr,optional"`
	Generators []*hclGenerator `hcl:"generator,block"`
	Filters    []string        `hcl:"filters,optional"`
	Body       string          `hcl:"body,optional"`
	Uniq       bool            `hcl:"uniq,optional"`
	Into       string          `hcl:"into,optional"`
	Reduce     string          `hcl:"reduce,optional"`
}

type hclGenerator struct {
	Pattern string   `hcl:"pattern"`
	Source  string   `hcl:"source"`
	Where   []string `hcl:"where,optional"`
}

func loadHCL(path string) (*Scenario, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	return decodeHCL(file, diags, path)
}

// parseHCL is loadHCL over an in-memory file.
func parseHCL(src []byte, path string) (*Scenario, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, path)
	return decodeHCL(file, diags, path)
}

func decodeHCL(file *hcl.File, diags hcl.Diagnostics, path string) (*Scenario, error) {
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var raw hclScenario
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return fromHCL(&raw, path)
}

func fromHCL(raw *hclScenario, path string) (*Scenario, error) {
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
		if !src.Values.IsNull() {
			v, err := marshal.FromCty(src.Values)
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
			comp.Generators = append(comp.Generators, Generator{Pattern: g.Pattern, Source: g.Source, Where: g.Where})
		}
		s.Comprehensions = append(s.Comprehensions, comp)
	}
	return s, nil
}
