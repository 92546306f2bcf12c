package evaluator

import (
	"fmt"

	"go.uber.org/zap"
)

// BodyFunc computes the emitted value from the bindings of one combination.
type BodyFunc func(env *Environment) (Object, error)

// FilterFunc decides whether a combination survives.
type FilterFunc func(env *Environment) (bool, error)

// SourceFunc computes a generator's source from the bindings of the generators before it.
type SourceFunc func(env *Environment) (Object, error)

// Generator supplies one nesting level of iteration.
type Generator struct {
	Pattern Pattern
	// Source is iterated when SourceFunc is nil.
	Source     Object
	SourceFunc SourceFunc
}

// Filter is a predicate over the bindings of a complete combination.
type Filter struct {
	Name string
	Test FilterFunc
	// When Scoped is set, Test only sees the bindings of the first Scope generators.
	Scoped bool
	Scope  int
}

// Comprehension ties generators, filters, a body and a policy together.
// Generators run left to right, leftmost outermost.
type Comprehension struct {
	Generators []Generator
	Filters    []Filter
	Body       BodyFunc
	Policy     Policy // nil means Collect
	Env        *Environment
}

// Stats counts what happened during the last evaluation.
type Stats struct {
	Combinations int // fully bound combinations
	PatternSkips int // elements rejected by a binding pattern
	Filtered     int // combinations rejected by a filter
	Emitted      int // combinations handed to the policy
}

// Evaluator runs comprehensions. It is not safe for concurrent use.
type Evaluator struct {
	Logger *zap.Logger
	Stats  Stats
}

func New() *Evaluator {
	return &Evaluator{Logger: zap.NewNop()}
}

// Evaluate runs c with a fresh Evaluator.
func Evaluate(c *Comprehension) (Object, error) {
	return New().Evaluate(c)
}

// run is the per-call state of one evaluation.
type run struct {
	e    *Evaluator
	c    *Comprehension
	acc  Accumulator
	envs []*Environment // envs[d] holds the bindings of generators [0, d)
}

// Evaluate performs the nested iteration and returns the policy's result.
func (e *Evaluator) Evaluate(c *Comprehension) (Object, error) {
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	e.Stats = Stats{}

	if err := validate(c); err != nil {
		return nil, err
	}

	policy := c.Policy
	if policy == nil {
		policy = Collect()
	}
	acc, err := policy.Start()
	if err != nil {
		return nil, stageError(StagePolicy, -1, err)
	}

	r := &run{e: e, c: c, acc: acc, envs: make([]*Environment, len(c.Generators)+1)}
	r.envs[0] = NewEnclosedEnvironment(c.Env)
	if err := r.descend(0); err != nil {
		e.Logger.Debug("comprehension failed", zap.Error(err), zap.Stringer("policy", policy))
		return nil, err
	}

	e.Logger.Debug("comprehension evaluated",
		zap.Stringer("policy", policy),
		zap.Int("generators", len(c.Generators)),
		zap.Int("combinations", e.Stats.Combinations),
		zap.Int("pattern_skips", e.Stats.PatternSkips),
		zap.Int("filtered", e.Stats.Filtered),
		zap.Int("emitted", e.Stats.Emitted),
	)
	return acc.Result(), nil
}

func validate(c *Comprehension) error {
	for i, g := range c.Generators {
		if g.Pattern == nil {
			return &EvalError{Stage: StagePattern, Generator: i, Err: contractError("generator has no pattern")}
		}
	}
	for i, f := range c.Filters {
		if f.Test == nil {
			return &EvalError{Stage: StageFilter, Generator: -1, Err: contractError("filter %d has no predicate", i)}
		}
		if f.Scoped && (f.Scope < 0 || f.Scope > len(c.Generators)) {
			return &EvalError{Stage: StageFilter, Generator: -1,
				Err: contractError("filter %d scope %d outside 0..%d", i, f.Scope, len(c.Generators))}
		}
	}
	if c.Body == nil {
		if _, ok := c.Policy.(*reducePolicy); !ok {
			return &EvalError{Stage: StageBody, Generator: -1, Err: contractError("comprehension has no body")}
		}
	}
	return nil
}

func (r *run) descend(depth int) error {
	if depth == len(r.c.Generators) {
		return r.emit()
	}

	g := r.c.Generators[depth]
	src := g.Source
	if g.SourceFunc != nil {
		var err error
		src, err = g.SourceFunc(r.envs[depth])
		if err != nil {
			return stageError(StageSource, depth, err)
		}
	}
	elements, err := Elements(src)
	if err != nil {
		return stageError(StageSource, depth, err)
	}

	for _, elem := range elements {
		bindings, ok := g.Pattern.TryMatch(elem)
		if !ok {
			r.e.Stats.PatternSkips++
			continue
		}
		env := NewEnclosedEnvironment(r.envs[depth])
		for _, b := range bindings {
			env.Set(b.Name, b.Value)
		}
		r.envs[depth+1] = env
		if err := r.descend(depth + 1); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) emit() error {
	r.e.Stats.Combinations++
	full := r.envs[len(r.envs)-1]

	for i, f := range r.c.Filters {
		env := full
		if f.Scoped {
			env = r.envs[f.Scope]
		}
		ok, err := f.Test(env)
		if err != nil {
			return stageError(StageFilter, -1, fmt.Errorf("%s: %w", r.filterName(i), err))
		}
		if !ok {
			r.e.Stats.Filtered++
			return nil
		}
	}

	r.e.Stats.Emitted++
	produce := func() (Object, error) {
		v, err := r.c.Body(full)
		if err != nil {
			return nil, stageError(StageBody, -1, err)
		}
		if v == nil {
			v = NIL
		}
		return v, nil
	}
	if err := r.acc.Emit(full, produce); err != nil {
		return stageError(StagePolicy, -1, err)
	}
	return nil
}

func (r *run) filterName(i int) string {
	if name := r.c.Filters[i].Name; name != "" {
		return name
	}
	return fmt.Sprintf("filter %d", i)
}
