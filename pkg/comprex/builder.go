package comprex

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/evaluator"
)

// Bindings gives callbacks access to the names bound for one combination.
type Bindings struct {
	env *evaluator.Environment
}

// Get returns the value bound to name, or nil.
func (b Bindings) Get(name string) Value {
	v, _ := b.env.Get(name)
	return v
}

// Lookup returns the value bound to name or an unbound error.
func (b Bindings) Lookup(name string) (Value, error) {
	return b.env.Lookup(name)
}

// Int returns the integer bound to name.
func (b Bindings) Int(name string) (int64, error) {
	v, err := b.env.Lookup(name)
	if err != nil {
		return 0, err
	}
	i, ok := v.(*evaluator.Integer)
	if !ok {
		return 0, fmt.Errorf("%s is %s, not Int", name, evaluator.TypeName(v))
	}
	return i.Value, nil
}

// Builder assembles a comprehension. Generators run in the order they are
// added, the first one outermost. The first error sticks and is returned by
// the terminal method.
type Builder struct {
	gens    []evaluator.Generator
	filters []evaluator.Filter
	env     *evaluator.Environment
	logger  *zap.Logger
	err     error
}

// Comprehension starts an empty builder.
func Comprehension() *Builder {
	return &Builder{logger: zap.NewNop()}
}

// Comprehension starts a builder whose callbacks also see the globals of e.
func (e *Engine) Comprehension() *Builder {
	return &Builder{env: e.globals, logger: e.logger}
}

// For binds every element of source to name. "_" binds nothing.
func For(name string, source interface{}) *Builder {
	return Comprehension().For(name, source)
}

func (b *Builder) add(p evaluator.Pattern, source interface{}) *Builder {
	if b.err != nil {
		return b
	}
	g := evaluator.Generator{Pattern: p}
	switch s := source.(type) {
	case func(Bindings) (Value, error):
		g.SourceFunc = func(env *evaluator.Environment) (evaluator.Object, error) { return s(Bindings{env}) }
	case Value:
		g.Source = s
	default:
		obj, err := Convert(source)
		if err != nil {
			b.err = fmt.Errorf("generator %d: %w", len(b.gens), err)
			return b
		}
		g.Source = obj
	}
	b.gens = append(b.gens, g)
	return b
}

// For adds a generator binding each element to name. source is a Value, a
// Go value converted with Convert, or a func(Bindings) (Value, error)
// computing the source from the outer bindings.
func (b *Builder) For(name string, source interface{}) *Builder {
	return b.add(&evaluator.BindAll{Name: name}, source)
}

// ForTuple adds a generator matching tuples of exactly len(names) elements.
func (b *Builder) ForTuple(names []string, source interface{}) *Builder {
	return b.add(&evaluator.BindTuple{Elements: names}, source)
}

// ForKeys adds a generator matching maps that hold every key, binding each
// key's value to the key's own name.
func (b *Builder) ForKeys(keys []string, source interface{}) *Builder {
	return b.add(&evaluator.BindMappingKeys{Keys: keys}, source)
}

// ForKeysAs is ForKeys binding keys[i] to names[i].
func (b *Builder) ForKeysAs(keys, names []string, source interface{}) *Builder {
	if len(keys) != len(names) {
		if b.err == nil {
			b.err = fmt.Errorf("generator %d: %d keys but %d names", len(b.gens), len(keys), len(names))
		}
		return b
	}
	return b.add(&evaluator.BindMappingKeys{Keys: keys, As: names}, source)
}

// Where adds a filter that sees the generators added so far.
func (b *Builder) Where(test func(Bindings) (bool, error)) *Builder {
	if b.err != nil {
		return b
	}
	b.filters = append(b.filters, evaluator.Filter{
		Name:   fmt.Sprintf("filter %d", len(b.filters)),
		Scoped: true,
		Scope:  len(b.gens),
		Test:   func(env *evaluator.Environment) (bool, error) { return test(Bindings{env}) },
	})
	return b
}

func (b *Builder) run(policy evaluator.Policy, body func(Bindings) (Value, error)) (Value, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := &evaluator.Comprehension{
		Generators: b.gens,
		Filters:    b.filters,
		Policy:     policy,
		Env:        b.env,
	}
	if body != nil {
		c.Body = func(env *evaluator.Environment) (evaluator.Object, error) { return body(Bindings{env}) }
	}
	ev := &evaluator.Evaluator{Logger: b.logger}
	return ev.Evaluate(c)
}

// Collect returns the list of body values.
func (b *Builder) Collect(body func(Bindings) (Value, error)) (Value, error) {
	return b.run(evaluator.Collect(), body)
}

// Uniq returns the body values with duplicates dropped, first occurrence kept.
func (b *Builder) Uniq(body func(Bindings) (Value, error)) (Value, error) {
	return b.run(evaluator.Uniq(), body)
}

// Into merges (key, value) tuples from body into a copy of seed.
func (b *Builder) Into(seed *evaluator.Map, body func(Bindings) (Value, error)) (Value, error) {
	return b.run(evaluator.MergeInto(seed), body)
}

// UniqInto is Into with duplicate pairs dropped before merging.
func (b *Builder) UniqInto(seed *evaluator.Map, body func(Bindings) (Value, error)) (Value, error) {
	return b.run(evaluator.Unique(evaluator.MergeInto(seed)), body)
}

// IntoString appends chars or strings from body to seed.
func (b *Builder) IntoString(seed string, body func(Bindings) (Value, error)) (Value, error) {
	return b.run(evaluator.IntoString(seed), body)
}

// Reduce folds step over the combinations, starting from seed.
func (b *Builder) Reduce(seed Value, step func(b Bindings, acc Value) (Value, error)) (Value, error) {
	return b.run(evaluator.Reduce(seed, func(env *evaluator.Environment, acc evaluator.Object) (evaluator.Object, error) {
		return step(Bindings{env}, acc)
	}), nil)
}
