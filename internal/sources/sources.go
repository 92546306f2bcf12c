// Package sources provides the generator source sequences a scenario draws
// from: literal values, ranges, expressions, random samples, SQL queries and
// files. Providers run before evaluation, never inside it.
package sources

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
)

// Provider produces one source sequence. env holds the sources loaded before it.
type Provider interface {
	Load(ctx context.Context, env *evaluator.Environment) (evaluator.Object, error)
}

// Spec is the declarative description of a source.
type Spec struct {
	Name string
	Kind string

	Values evaluator.Object // values

	Start, End, Step int64 // range; Step 0 means 1

	Expr string // expr

	Sample string // random
	Count  int
	Seed   *int64

	Driver string // sql; defaults to sqlite
	DSN    string
	Query  string

	Path   string // file
	Format string
}

// Options carry settings shared by every provider.
type Options struct {
	BaseDir string
	Seed    int64
	Logger  *zap.Logger
}

// Factory builds a provider from a spec.
type Factory func(spec Spec, opts Options) (Provider, error)

// Registry maps source kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with every built-in kind.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(config.SourceValues, func(s Spec, _ Options) (Provider, error) {
		if s.Values == nil {
			return nil, fmt.Errorf("values source needs values")
		}
		return &Values{Value: s.Values}, nil
	})
	r.Register(config.SourceRange, func(s Spec, _ Options) (Provider, error) {
		return &Range{Start: s.Start, End: s.End, Step: s.Step}, nil
	})
	r.Register(config.SourceExpr, func(s Spec, opts Options) (Provider, error) {
		if s.Expr == "" {
			return nil, fmt.Errorf("expr source needs an expression")
		}
		return &Expr{Source: s.Expr, Logger: opts.Logger}, nil
	})
	r.Register(config.SourceRandom, newRandom)
	r.Register(config.SourceSQL, newSQL)
	r.Register(config.SourceFile, func(s Spec, opts Options) (Provider, error) {
		if s.Path == "" {
			return nil, fmt.Errorf("file source needs a path")
		}
		format := s.Format
		if format == "" {
			format = config.FormatLines
		}
		return &File{Path: resolve(opts.BaseDir, s.Path), Format: format}, nil
	})
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// Kinds lists the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New builds the provider for spec.
func (r *Registry) New(spec Spec, opts Options) (Provider, error) {
	f, ok := r.factories[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("source %s: unknown kind %q (want one of %v)", spec.Name, spec.Kind, r.Kinds())
	}
	p, err := f(spec, opts)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", spec.Name, err)
	}
	return p, nil
}

func resolve(base, path string) string {
	if base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Values returns a fixed value.
type Values struct {
	Value evaluator.Object
}

func (v *Values) Load(context.Context, *evaluator.Environment) (evaluator.Object, error) {
	return v.Value, nil
}

// Range returns the inclusive integer range Start..End.
type Range struct {
	Start, End, Step int64
}

func (r *Range) Load(context.Context, *evaluator.Environment) (evaluator.Object, error) {
	step := r.Step
	if step == 0 {
		step = 1
	}
	return &evaluator.Range{Start: r.Start, End: r.End, Step: step}, nil
}

// Expr evaluates an expression over the sources loaded before it.
type Expr struct {
	Source string
	Logger *zap.Logger
}

func (e *Expr) Load(_ context.Context, env *evaluator.Environment) (evaluator.Object, error) {
	ev := evaluator.New()
	if e.Logger != nil {
		ev.Logger = e.Logger
	}
	return ev.EvalString(e.Source, env)
}

func newRandom(s Spec, opts Options) (Provider, error) {
	seed := opts.Seed
	if s.Seed != nil {
		seed = *s.Seed
	}
	count := s.Count
	if count == 0 {
		count = 10
	}
	if count < 0 {
		return nil, fmt.Errorf("random count %d is negative", count)
	}
	sample := s.Sample
	if sample == "" {
		sample = config.SampleNumbers
	}
	if _, ok := samples[sample]; !ok {
		return nil, fmt.Errorf("unknown sample %q", sample)
	}
	return &Random{Sample: sample, Count: count, Rand: rand.New(rand.NewSource(seed))}, nil
}
