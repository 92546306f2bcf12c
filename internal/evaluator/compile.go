package evaluator

import (
	"fmt"
	"sync"

	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/config"
)

// CompilePattern converts a parsed binding pattern.
func CompilePattern(p ast.Pattern) (Pattern, error) {
	switch p := p.(type) {
	case *ast.IdentifierPattern:
		return &BindAll{Name: p.Value}, nil
	case *ast.TuplePattern:
		return &BindTuple{Elements: append([]string(nil), p.Elements...)}, nil
	case *ast.MappingPattern:
		bm := &BindMappingKeys{}
		for _, f := range p.Fields {
			bm.Keys = append(bm.Keys, f.Key)
			bm.As = append(bm.As, f.Name)
		}
		return bm, nil
	default:
		return nil, fmt.Errorf("unsupported pattern %T", p)
	}
}

// Compile turns a parsed comprehension into a Comprehension evaluated over env.
// Each filter only sees the generators written before it; a filter reading a
// name that only a later generator binds is rejected here, even when env
// holds a global of that name. Option seeds are evaluated in env when the
// policy starts, so nothing is evaluated here.
func (e *Evaluator) Compile(node *ast.ListComprehension, env *Environment) (*Comprehension, error) {
	c := &Comprehension{Env: env}
	bound := make(map[string]bool)
	generated := generatorNames(node)

	for _, clause := range node.Clauses {
		switch clause := clause.(type) {
		case *ast.CompGenerator:
			pat, err := CompilePattern(clause.Pattern)
			if err != nil {
				return nil, &EvalError{Stage: StagePattern, Generator: len(c.Generators), Err: err}
			}
			c.Generators = append(c.Generators, Generator{
				Pattern:    pat,
				SourceFunc: e.sourceFunc(clause.Iterable, dependsOn(clause.Iterable, bound)),
			})
			for _, name := range pat.Names() {
				bound[name] = true
			}
		case *ast.CompFilter:
			cond := clause.Condition
			if name := laterName(cond, bound, generated); name != "" {
				return nil, &EvalError{Stage: StageFilter, Generator: -1,
					Err: fmt.Errorf("%s: %w", cond.String(), &UnboundError{Name: name})}
			}
			c.Filters = append(c.Filters, Filter{
				Name:   cond.String(),
				Scoped: true,
				Scope:  len(c.Generators),
				Test: func(env *Environment) (bool, error) {
					v, err := e.Eval(cond, env)
					if err != nil {
						return false, err
					}
					b, ok := v.(*Boolean)
					if !ok {
						return false, contractError("filter must produce Bool, got %s", TypeName(v))
					}
					return b.Value, nil
				},
			})
		}
	}

	policy, err := e.compilePolicy(node, env)
	if err != nil {
		return nil, err
	}
	c.Policy = policy
	if node.Options.Reduce == nil {
		output := node.Output
		c.Body = func(env *Environment) (Object, error) { return e.Eval(output, env) }
	}
	return c, nil
}

// sourceFunc evaluates a generator source. Sources that use no earlier
// generator's names are evaluated once and reused for every outer combination.
func (e *Evaluator) sourceFunc(expr ast.Expression, dependent bool) SourceFunc {
	if dependent {
		return func(env *Environment) (Object, error) { return e.Eval(expr, env) }
	}
	var (
		once sync.Once
		val  Object
		err  error
	)
	return func(env *Environment) (Object, error) {
		once.Do(func() { val, err = e.Eval(expr, env) })
		return val, err
	}
}

func (e *Evaluator) compilePolicy(node *ast.ListComprehension, env *Environment) (Policy, error) {
	opts := node.Options
	if opts.Reduce != nil {
		if opts.Uniq || opts.Into != nil {
			return nil, &EvalError{Stage: StagePolicy, Generator: -1,
				Err: contractError("reduce cannot be combined with uniq or into")}
		}
		seed := opts.Reduce
		step := node.Output
		return &reducePolicy{
			seedText: seed.String(),
			seedFunc: func() (Object, error) { return e.Eval(seed, env) },
			step: func(env *Environment, acc Object) (Object, error) {
				scope := NewEnclosedEnvironment(env)
				scope.Set(config.AccumulatorName, acc)
				return e.Eval(step, scope)
			},
		}, nil
	}

	policy := Collect()
	if opts.Into != nil {
		seed := opts.Into
		policy = &intoExprPolicy{
			text: seed.String(),
			seed: func() (Object, error) { return e.Eval(seed, env) },
		}
	}
	if opts.Uniq {
		policy = Unique(policy)
	}
	return policy, nil
}

// intoExprPolicy evaluates its seed when it starts and then accumulates
// like intoPolicy(seed).
type intoExprPolicy struct {
	text string
	seed func() (Object, error)
}

func (p *intoExprPolicy) Start() (Accumulator, error) {
	seed, err := p.seed()
	if err != nil {
		return nil, stageError(StagePolicy, -1, err)
	}
	inner, err := intoPolicy(seed)
	if err != nil {
		return nil, err
	}
	return inner.Start()
}

func (p *intoExprPolicy) String() string { return "into " + p.text }

// intoPolicy picks the accumulation for an into seed: maps merge pairs,
// strings append text, lists append values.
func intoPolicy(seed Object) (Policy, error) {
	switch s := seed.(type) {
	case *Map:
		return MergeInto(s), nil
	case *List:
		if IsStringList(s) {
			return IntoString(ListToString(s)), nil
		}
		return CollectInto(s), nil
	}
	return nil, &EvalError{Stage: StagePolicy, Generator: -1,
		Err: contractError("cannot accumulate into %s", TypeName(seed))}
}

// generatorNames returns every name bound by a generator of node.
func generatorNames(node *ast.ListComprehension) map[string]bool {
	names := make(map[string]bool)
	for _, clause := range node.Clauses {
		g, ok := clause.(*ast.CompGenerator)
		if !ok {
			continue
		}
		if pat, err := CompilePattern(g.Pattern); err == nil {
			for _, name := range pat.Names() {
				names[name] = true
			}
		}
	}
	return names
}

// laterName returns a name cond reads that is not bound yet but is bound by
// a later generator, or "".
func laterName(cond ast.Expression, bound, generated map[string]bool) string {
	var found string
	freeIdentifiers(cond, func(name string) {
		if found == "" && generated[name] && !bound[name] {
			found = name
		}
	})
	return found
}

// dependsOn reports whether expr mentions any name in bound.
func dependsOn(expr ast.Expression, bound map[string]bool) bool {
	found := false
	walkIdentifiers(expr, func(name string) {
		if bound[name] {
			found = true
		}
	})
	return found
}

// walkIdentifiers calls fn for every identifier read by expr. Names bound by
// nested comprehensions are reported too.
func walkIdentifiers(expr ast.Expression, fn func(string)) {
	walkNames(expr, fn, false)
}

// freeIdentifiers calls fn for every identifier expr reads from its
// enclosing scope. Names a nested comprehension binds itself are skipped.
func freeIdentifiers(expr ast.Expression, fn func(string)) {
	walkNames(expr, fn, true)
}

func walkNames(expr ast.Expression, fn func(string), scoped bool) {
	switch n := expr.(type) {
	case *ast.Identifier:
		fn(n.Value)
	case *ast.TupleLiteral:
		for _, el := range n.Elements {
			walkNames(el, fn, scoped)
		}
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			walkNames(el, fn, scoped)
		}
	case *ast.MapLiteral:
		for _, entry := range n.Entries {
			walkNames(entry.Key, fn, scoped)
			walkNames(entry.Value, fn, scoped)
		}
	case *ast.RangeExpression:
		walkNames(n.Start, fn, scoped)
		walkNames(n.End, fn, scoped)
	case *ast.PrefixExpression:
		walkNames(n.Right, fn, scoped)
	case *ast.InfixExpression:
		walkNames(n.Left, fn, scoped)
		walkNames(n.Right, fn, scoped)
	case *ast.CallExpression:
		for _, arg := range n.Arguments {
			walkNames(arg, fn, scoped)
		}
	case *ast.IndexExpression:
		walkNames(n.Left, fn, scoped)
		walkNames(n.Index, fn, scoped)
	case *ast.MemberExpression:
		walkNames(n.Left, fn, scoped)
	case *ast.ListComprehension:
		local := make(map[string]bool)
		inner := fn
		if scoped {
			inner = func(name string) {
				if !local[name] {
					fn(name)
				}
			}
		}
		for _, clause := range n.Clauses {
			switch cl := clause.(type) {
			case *ast.CompGenerator:
				walkNames(cl.Iterable, inner, scoped)
				if pat, err := CompilePattern(cl.Pattern); err == nil {
					for _, name := range pat.Names() {
						local[name] = true
					}
				}
			case *ast.CompFilter:
				walkNames(cl.Condition, inner, scoped)
			}
		}
		if n.Options.Reduce != nil {
			local[config.AccumulatorName] = true
		}
		walkNames(n.Output, inner, scoped)
		// seeds are evaluated in the enclosing scope
		if n.Options.Into != nil {
			walkNames(n.Options.Into, fn, scoped)
		}
		if n.Options.Reduce != nil {
			walkNames(n.Options.Reduce, fn, scoped)
		}
	}
}
