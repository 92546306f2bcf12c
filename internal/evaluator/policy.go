package evaluator

import (
	"strings"
)

// Produce evaluates the body for the combination being emitted.
type Produce func() (Object, error)

// StepFunc folds one combination into the accumulator.
type StepFunc func(env *Environment, acc Object) (Object, error)

// Policy decides how surviving combinations become the result.
// Start is called once per evaluation; the Accumulator it returns is owned
// by that evaluation alone.
type Policy interface {
	Start() (Accumulator, error)
	String() string
}

// Accumulator is the running state of one evaluation.
type Accumulator interface {
	// Emit folds one surviving combination. Policies that need the body value call produce.
	Emit(env *Environment, produce Produce) error
	// Result returns the final value.
	Result() Object
}

// Collect appends every body value to a list.
func Collect() Policy { return collectPolicy{} }

// CollectInto appends every body value to a copy of seed.
func CollectInto(seed *List) Policy { return collectPolicy{seed: seed} }

type collectPolicy struct {
	seed *List
}

func (p collectPolicy) Start() (Accumulator, error) {
	a := &collectAcc{}
	if p.seed != nil {
		a.items = append(a.items, p.seed.ToSlice()...)
	}
	return a, nil
}

func (p collectPolicy) String() string {
	if p.seed == nil {
		return "collect"
	}
	return "into " + p.seed.Inspect()
}

type collectAcc struct {
	items []Object
}

func (a *collectAcc) Emit(_ *Environment, produce Produce) error {
	v, err := produce()
	if err != nil {
		return err
	}
	a.items = append(a.items, v)
	return nil
}

func (a *collectAcc) Result() Object { return NewList(a.items) }

// MergeInto inserts (key, value) tuples into a copy of seed. Later keys overwrite
// earlier ones. A nil seed starts from an empty map.
func MergeInto(seed *Map) Policy { return &mergePolicy{seed: seed} }

type mergePolicy struct {
	seed *Map
}

func (p *mergePolicy) Start() (Accumulator, error) {
	if p.seed == nil {
		return &mergeAcc{m: NewMap()}, nil
	}
	return &mergeAcc{m: p.seed.clone()}, nil
}

func (p *mergePolicy) String() string { return "into " + p.seedString() }

func (p *mergePolicy) seedString() string {
	if p.seed == nil {
		return "{}"
	}
	return p.seed.Inspect()
}

type mergeAcc struct {
	m *Map
}

func (a *mergeAcc) Emit(_ *Environment, produce Produce) error {
	v, err := produce()
	if err != nil {
		return err
	}
	pair, ok := v.(*Tuple)
	if !ok || len(pair.Elements) != 2 {
		return &EvalError{Stage: StageMerge, Generator: -1,
			Err: contractError("merge expects a (key, value) tuple, got %s", v.Inspect())}
	}
	a.m.put(pair.Elements[0], pair.Elements[1])
	return nil
}

func (a *mergeAcc) Result() Object { return a.m }

// IntoString concatenates emitted chars and strings onto seed.
func IntoString(seed string) Policy { return intoStringPolicy{seed: seed} }

type intoStringPolicy struct {
	seed string
}

func (p intoStringPolicy) Start() (Accumulator, error) {
	a := &stringAcc{}
	a.sb.WriteString(p.seed)
	return a, nil
}

func (p intoStringPolicy) String() string { return "into " + NewString(p.seed).Inspect() }

type stringAcc struct {
	sb strings.Builder
}

func (a *stringAcc) Emit(_ *Environment, produce Produce) error {
	v, err := produce()
	if err != nil {
		return err
	}
	switch o := v.(type) {
	case *Char:
		a.sb.WriteRune(rune(o.Value))
	case *List:
		if o.Len() > 0 && !IsStringList(o) {
			return &EvalError{Stage: StageMerge, Generator: -1,
				Err: contractError("string accumulation expects chars or strings, got %s", v.Inspect())}
		}
		a.sb.WriteString(ListToString(o))
	default:
		return &EvalError{Stage: StageMerge, Generator: -1,
			Err: contractError("string accumulation expects chars or strings, got %s", TypeName(v))}
	}
	return nil
}

func (a *stringAcc) Result() Object { return NewString(a.sb.String()) }

// Uniq collects body values, dropping any value equal to one already emitted.
func Uniq() Policy { return Unique(Collect()) }

// Unique drops body values equal to one already emitted and forwards the rest
// to inner. Deduplication happens before inner sees the value, so
// Unique(MergeInto(m)) skips repeated pairs before merging them.
func Unique(inner Policy) Policy { return &uniquePolicy{inner: inner} }

type uniquePolicy struct {
	inner Policy
}

func (p *uniquePolicy) Start() (Accumulator, error) {
	if _, ok := p.inner.(*reducePolicy); ok {
		return nil, &EvalError{Stage: StagePolicy, Generator: -1,
			Err: contractError("uniq cannot be combined with reduce")}
	}
	inner, err := p.inner.Start()
	if err != nil {
		return nil, err
	}
	return &uniqueAcc{inner: inner, seen: make(map[uint32][]Object)}, nil
}

func (p *uniquePolicy) String() string {
	if c, ok := p.inner.(collectPolicy); ok && c.seed == nil {
		return "uniq"
	}
	return "uniq, " + p.inner.String()
}

type uniqueAcc struct {
	inner Accumulator
	seen  map[uint32][]Object
}

func (a *uniqueAcc) Emit(env *Environment, produce Produce) error {
	v, err := produce()
	if err != nil {
		return err
	}
	h := v.Hash()
	for _, prev := range a.seen[h] {
		if ObjectsEqual(prev, v) {
			return nil
		}
	}
	a.seen[h] = append(a.seen[h], v)
	return a.inner.Emit(env, func() (Object, error) { return v, nil })
}

func (a *uniqueAcc) Result() Object { return a.inner.Result() }

// Reduce folds every combination with step, starting from seed. The body is not evaluated.
func Reduce(seed Object, step StepFunc) Policy { return &reducePolicy{seed: seed, step: step} }

type reducePolicy struct {
	seed Object
	step StepFunc

	// seedFunc, when set, produces the seed each time the policy starts.
	seedFunc func() (Object, error)
	seedText string
}

func (p *reducePolicy) Start() (Accumulator, error) {
	if p.step == nil {
		return nil, &EvalError{Stage: StagePolicy, Generator: -1,
			Err: contractError("reduce needs a step function")}
	}
	seed := p.seed
	if p.seedFunc != nil {
		var err error
		if seed, err = p.seedFunc(); err != nil {
			return nil, stageError(StagePolicy, -1, err)
		}
	}
	if seed == nil {
		seed = NIL
	}
	return &reduceAcc{acc: seed, step: p.step}, nil
}

func (p *reducePolicy) String() string {
	if p.seedFunc != nil {
		return "reduce " + p.seedText
	}
	if p.seed == nil {
		return "reduce nil"
	}
	return "reduce " + p.seed.Inspect()
}

type reduceAcc struct {
	acc  Object
	step StepFunc
}

func (a *reduceAcc) Emit(env *Environment, _ Produce) error {
	next, err := a.step(env, a.acc)
	if err != nil {
		return stageError(StageStep, -1, err)
	}
	if next == nil {
		next = NIL
	}
	a.acc = next
	return nil
}

func (a *reduceAcc) Result() Object { return a.acc }
