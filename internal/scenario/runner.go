package scenario

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/parser"
	"github.com/funvibe/comprex/internal/sources"
)

// Result is the value of one evaluated comprehension.
type Result struct {
	Name  string
	Value evaluator.Object
	Stats evaluator.Stats
}

// Runner loads sources and evaluates comprehensions.
type Runner struct {
	Registry *sources.Registry
	Logger   *zap.Logger
	// Seed is used by random sources when the scenario sets none.
	Seed int64
	// DataDir replaces the scenario's directory as the base of relative source paths.
	DataDir string
}

func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Registry: sources.NewRegistry(), Logger: logger}
}

func (r *Runner) options(s *Scenario) sources.Options {
	seed := r.Seed
	if s.Seed != nil {
		seed = *s.Seed
	}
	base := s.Dir()
	if r.DataDir != "" {
		base = r.DataDir
	}
	return sources.Options{BaseDir: base, Seed: seed, Logger: r.Logger}
}

// Parse returns the comprehension's syntax tree, built from Expr or from
// the structured parts.
func (c *Comprehension) Parse() (*ast.ListComprehension, error) {
	if c.Expr != "" {
		return parser.ParseComprehension(c.Expr)
	}
	if c.Body == "" {
		return nil, fmt.Errorf("needs a body")
	}

	node := &ast.ListComprehension{}
	for i, g := range c.Generators {
		pat, err := parser.ParsePattern(g.Pattern)
		if err != nil {
			return nil, fmt.Errorf("generator %d pattern: %w", i, err)
		}
		src, err := parser.ParseExpression(g.Source)
		if err != nil {
			return nil, fmt.Errorf("generator %d source: %w", i, err)
		}
		node.Clauses = append(node.Clauses, &ast.CompGenerator{Pattern: pat, Iterable: src})
		for _, w := range g.Where {
			if err := appendFilter(node, w); err != nil {
				return nil, fmt.Errorf("generator %d: %w", i, err)
			}
		}
	}
	for _, f := range c.Filters {
		if err := appendFilter(node, f); err != nil {
			return nil, err
		}
	}

	var err error
	if node.Output, err = parser.ParseExpression(c.Body); err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	node.Options.Uniq = c.Uniq
	if c.Into != "" {
		if node.Options.Into, err = parser.ParseExpression(c.Into); err != nil {
			return nil, fmt.Errorf("into: %w", err)
		}
	}
	if c.Reduce != "" {
		if c.Uniq || c.Into != "" {
			return nil, fmt.Errorf("reduce cannot be combined with uniq or into")
		}
		if node.Options.Reduce, err = parser.ParseExpression(c.Reduce); err != nil {
			return nil, fmt.Errorf("reduce: %w", err)
		}
	}
	return node, nil
}

func appendFilter(node *ast.ListComprehension, src string) error {
	cond, err := parser.ParseExpression(src)
	if err != nil {
		return fmt.Errorf("filter %q: %w", src, err)
	}
	node.Clauses = append(node.Clauses, &ast.CompFilter{Condition: cond})
	return nil
}

// Check builds every source provider and compiles every comprehension
// without loading or evaluating anything.
func (r *Runner) Check(s *Scenario) error {
	opts := r.options(s)
	for _, spec := range s.Sources {
		if _, err := r.Registry.New(spec, opts); err != nil {
			return fmt.Errorf("%s: %w", s.Path, err)
		}
	}
	env := evaluator.NewEnvironment()
	for _, c := range s.Comprehensions {
		node, err := c.Parse()
		if err != nil {
			return fmt.Errorf("%s: comprehension %s: %w", s.Path, c.Name, err)
		}
		if _, err := evaluator.New().Compile(node, env); err != nil {
			return fmt.Errorf("%s: comprehension %s: %w", s.Path, c.Name, err)
		}
	}
	return nil
}

// Run loads the sources in order, then evaluates the comprehensions in
// order. Each source and each result is bound under its name for the ones
// after it.
func (r *Runner) Run(ctx context.Context, s *Scenario) ([]Result, error) {
	opts := r.options(s)
	env := evaluator.NewEnvironment()

	for _, spec := range s.Sources {
		p, err := r.Registry.New(spec, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Path, err)
		}
		val, err := p.Load(ctx, env)
		if err != nil {
			return nil, fmt.Errorf("%s: source %s: %w", s.Path, spec.Name, err)
		}
		env.Set(spec.Name, val)
		r.Logger.Debug("Loaded source",
			zap.String("source", spec.Name),
			zap.String("kind", spec.Kind),
			zap.String("type", evaluator.TypeName(val)),
		)
	}

	results := make([]Result, 0, len(s.Comprehensions))
	for _, c := range s.Comprehensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.evaluate(c, env)
		if err != nil {
			return nil, fmt.Errorf("%s: comprehension %s: %w", s.Path, c.Name, err)
		}
		env.Set(c.Name, res.Value)
		results = append(results, res)
	}
	r.Logger.Info("Scenario finished",
		zap.String("path", s.Path),
		zap.Int("sources", len(s.Sources)),
		zap.Int("comprehensions", len(results)),
	)
	return results, nil
}

func (r *Runner) evaluate(c Comprehension, env *evaluator.Environment) (Result, error) {
	node, err := c.Parse()
	if err != nil {
		return Result{}, err
	}
	ev := &evaluator.Evaluator{Logger: r.Logger.With(zap.String("comprehension", c.Name))}
	compiled, err := ev.Compile(node, env)
	if err != nil {
		return Result{}, err
	}
	val, err := ev.Evaluate(compiled)
	if err != nil {
		return Result{}, err
	}
	r.Logger.Debug("Evaluated comprehension",
		zap.String("comprehension", c.Name),
		zap.Int("emitted", ev.Stats.Emitted),
		zap.Int("pattern_skips", ev.Stats.PatternSkips),
	)
	return Result{Name: c.Name, Value: val, Stats: ev.Stats}, nil
}
