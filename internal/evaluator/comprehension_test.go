package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/comprex/internal/parser"
)

func ints(values ...int64) *List {
	out := make([]Object, len(values))
	for i, v := range values {
		out[i] = &Integer{Value: v}
	}
	return NewList(out)
}

func strMap(kv ...interface{}) *Map {
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		var v Object
		switch val := kv[i+1].(type) {
		case int:
			v = &Integer{Value: int64(val)}
		case string:
			v = NewString(val)
		case Object:
			v = val
		}
		m.put(NewString(kv[i].(string)), v)
	}
	return m
}

func lookup(name string) BodyFunc {
	return func(env *Environment) (Object, error) { return env.Lookup(name) }
}

func assertObject(t *testing.T, want, got Object) {
	t.Helper()
	if !ObjectsEqual(want, got) {
		t.Fatalf("got %s, want %s", inspect(got), want.Inspect())
	}
}

func inspect(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	return obj.Inspect()
}

func TestCollectIdentity(t *testing.T) {
	source := ints(3, 1, 4, 1, 5)
	c := &Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "x"}, Source: source}},
		Filters: []Filter{{Test: func(*Environment) (bool, error) { return true, nil }}},
		Body:    lookup("x"),
		Policy:  Collect(),
	}
	got, err := Evaluate(c)
	require.NoError(t, err)
	assertObject(t, source, got)
}

func TestEmptySource(t *testing.T) {
	empty := NewList(nil)
	seedMap := strMap("k", 1)
	gen := []Generator{{Pattern: &BindAll{Name: "x"}, Source: empty}}

	tests := []struct {
		name   string
		policy Policy
		body   BodyFunc
		want   Object
	}{
		{"collect", Collect(), lookup("x"), NewList(nil)},
		{"uniq", Uniq(), lookup("x"), NewList(nil)},
		{"merge", MergeInto(seedMap), lookup("x"), seedMap},
		{"reduce", Reduce(&Integer{Value: 42}, func(env *Environment, acc Object) (Object, error) {
			return nil, errors.New("step must not run")
		}), nil, &Integer{Value: 42}},
		{"into string", IntoString("ab"), lookup("x"), NewString("ab")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(&Comprehension{Generators: gen, Body: tt.body, Policy: tt.policy})
			require.NoError(t, err)
			assertObject(t, tt.want, got)
		})
	}
}

func TestUniqPreservesFirstOccurrence(t *testing.T) {
	c := &Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "c"}, Source: NewString("hello")}},
		Body:       lookup("c"),
		Policy:     Uniq(),
	}
	got, err := Evaluate(c)
	require.NoError(t, err)
	assertObject(t, NewList([]Object{&Char{Value: 'h'}, &Char{Value: 'e'}, &Char{Value: 'l'}, &Char{Value: 'o'}}), got)
}

func TestMergeIntoLaterWins(t *testing.T) {
	seed := NewMap()
	c := &Comprehension{
		Generators: []Generator{
			{Pattern: &BindAll{Name: "number"}, Source: ints(1, 2)},
			{Pattern: &BindAll{Name: "letter"}, Source: NewList([]Object{NewString("a"), NewString("b")})},
		},
		Body: func(env *Environment) (Object, error) {
			l, _ := env.Get("letter")
			n, _ := env.Get("number")
			return NewTuple(l, n), nil
		},
		Policy: MergeInto(seed),
	}
	got, err := Evaluate(c)
	require.NoError(t, err)
	assertObject(t, strMap("a", 2, "b", 2), got)
	assert.Equal(t, 0, seed.Len(), "seed must not be modified")
}

func TestMergeIntoRejectsNonPairs(t *testing.T) {
	c := &Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "x"}, Source: ints(1)}},
		Body:       lookup("x"),
		Policy:     MergeInto(nil),
	}
	_, err := Evaluate(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContractViolation)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, StageMerge, ee.Stage)
}

func TestReduceFactorial(t *testing.T) {
	c := &Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "n"}, Source: &Range{Start: 1, End: 5, Step: 1}}},
		Policy: Reduce(&Integer{Value: 1}, func(env *Environment, acc Object) (Object, error) {
			n, err := env.Lookup("n")
			if err != nil {
				return nil, err
			}
			return evalInfix("*", n, acc)
		}),
	}
	got, err := Evaluate(c)
	require.NoError(t, err)
	assertObject(t, &Integer{Value: 120}, got)
}

func TestMappingPatternSkipsMissingKey(t *testing.T) {
	source := NewList([]Object{
		strMap("name", "ada"),
		strMap("other", "x"),
		strMap("name", "bob", "age", 30),
		&Integer{Value: 7},
	})
	e := New()
	got, err := e.Evaluate(&Comprehension{
		Generators: []Generator{{Pattern: &BindMappingKeys{Keys: []string{"name"}}, Source: source}},
		Body:       lookup("name"),
	})
	require.NoError(t, err)
	assertObject(t, NewList([]Object{NewString("ada"), NewString("bob")}), got)
	assert.Equal(t, 2, e.Stats.PatternSkips)
	assert.Equal(t, 2, e.Stats.Emitted)
}

func TestTuplePatternArity(t *testing.T) {
	one, two := &Integer{Value: 1}, &Integer{Value: 2}
	source := NewList([]Object{NewTuple(one, two), NewTuple(one), NewTuple(two, one), one})
	got, err := Evaluate(&Comprehension{
		Generators: []Generator{{Pattern: &BindTuple{Elements: []string{"a", "_"}}, Source: source}},
		Body:       lookup("a"),
	})
	require.NoError(t, err)
	assertObject(t, ints(1, 2), got)
}

func TestFilterScope(t *testing.T) {
	gens := []Generator{
		{Pattern: &BindAll{Name: "x"}, Source: ints(1, 2, 3)},
		{Pattern: &BindAll{Name: "y"}, Source: ints(10, 20)},
	}
	usesY := func(env *Environment) (bool, error) {
		y, err := env.Lookup("y")
		if err != nil {
			return false, err
		}
		return y.(*Integer).Value > 10, nil
	}

	t.Run("after generator", func(t *testing.T) {
		got, err := Evaluate(&Comprehension{
			Generators: gens,
			Filters:    []Filter{{Test: usesY, Scoped: true, Scope: 2}},
			Body:       lookup("x"),
		})
		require.NoError(t, err)
		assertObject(t, ints(1, 2, 3), got)
	})

	t.Run("before generator", func(t *testing.T) {
		got, err := Evaluate(&Comprehension{
			Generators: gens,
			Filters:    []Filter{{Name: "y > 10", Test: usesY, Scoped: true, Scope: 1}},
			Body:       lookup("x"),
		})
		require.Error(t, err)
		assert.Nil(t, got)

		var unbound *UnboundError
		require.ErrorAs(t, err, &unbound)
		assert.Equal(t, "y", unbound.Name)

		var ee *EvalError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, StageFilter, ee.Stage)
		assert.Contains(t, err.Error(), "y > 10")
	})
}

func TestGeneratorOrderLeftmostOutermost(t *testing.T) {
	got, err := Evaluate(&Comprehension{
		Generators: []Generator{
			{Pattern: &BindAll{Name: "a"}, Source: ints(1, 2)},
			{Pattern: &BindAll{Name: "b"}, Source: ints(3, 4)},
		},
		Body: func(env *Environment) (Object, error) {
			a, _ := env.Get("a")
			b, _ := env.Get("b")
			return NewTuple(a, b), nil
		},
	})
	require.NoError(t, err)
	pair := func(a, b int64) Object { return NewTuple(&Integer{Value: a}, &Integer{Value: b}) }
	assertObject(t, NewList([]Object{pair(1, 3), pair(1, 4), pair(2, 3), pair(2, 4)}), got)
}

func TestDependentSource(t *testing.T) {
	got, err := Evaluate(&Comprehension{
		Generators: []Generator{
			{Pattern: &BindAll{Name: "x"}, Source: ints(1, 2, 3)},
			{Pattern: &BindAll{Name: "y"}, SourceFunc: func(env *Environment) (Object, error) {
				x, err := env.Lookup("x")
				if err != nil {
					return nil, err
				}
				return &Range{Start: 1, End: x.(*Integer).Value, Step: 1}, nil
			}},
		},
		Body: lookup("y"),
	})
	require.NoError(t, err)
	assertObject(t, ints(1, 1, 2, 1, 2, 3), got)
}

func TestEvaluationFailures(t *testing.T) {
	boom := errors.New("boom")
	src := []Generator{{Pattern: &BindAll{Name: "x"}, Source: ints(1, 2)}}

	tests := []struct {
		name  string
		c     *Comprehension
		stage Stage
		is    error
	}{
		{
			name:  "body",
			c:     &Comprehension{Generators: src, Body: func(*Environment) (Object, error) { return nil, boom }},
			stage: StageBody,
			is:    boom,
		},
		{
			name: "filter",
			c: &Comprehension{Generators: src, Body: lookup("x"),
				Filters: []Filter{{Test: func(*Environment) (bool, error) { return false, boom }}}},
			stage: StageFilter,
			is:    boom,
		},
		{
			name: "step",
			c: &Comprehension{Generators: src, Policy: Reduce(NIL, func(*Environment, Object) (Object, error) {
				return nil, boom
			})},
			stage: StageStep,
			is:    boom,
		},
		{
			name:  "source",
			c:     &Comprehension{Generators: []Generator{{Pattern: &BindAll{Name: "x"}, Source: &Integer{Value: 3}}}, Body: lookup("x")},
			stage: StageSource,
			is:    ErrContractViolation,
		},
		{
			name:  "no body",
			c:     &Comprehension{Generators: src},
			stage: StageBody,
			is:    ErrContractViolation,
		},
		{
			name:  "uniq over reduce",
			c:     &Comprehension{Generators: src, Body: lookup("x"), Policy: Unique(Reduce(NIL, nil))},
			stage: StagePolicy,
			is:    ErrContractViolation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.c)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.is)
			var ee *EvalError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.stage, ee.Stage)
		})
	}
}

func TestUniqueBeforeMerge(t *testing.T) {
	var merged int
	source := NewList([]Object{
		NewTuple(NewString("a"), &Integer{Value: 1}),
		NewTuple(NewString("a"), &Integer{Value: 1}),
		NewTuple(NewString("b"), &Integer{Value: 2}),
	})
	got, err := Evaluate(&Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "p"}, Source: source}},
		Body: func(env *Environment) (Object, error) {
			merged++
			return env.Lookup("p")
		},
		Policy: Unique(MergeInto(nil)),
	})
	require.NoError(t, err)
	assertObject(t, strMap("a", 1, "b", 2), got)
	assert.Equal(t, 3, merged, "body runs once per combination")
}

func TestCollectIntoSeed(t *testing.T) {
	seed := ints(0)
	got, err := Evaluate(&Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "x"}, Source: ints(1, 2)}},
		Body:       lookup("x"),
		Policy:     CollectInto(seed),
	})
	require.NoError(t, err)
	assertObject(t, ints(0, 1, 2), got)
	assertObject(t, ints(0), seed)
}

func TestSignedZerosAreOneValue(t *testing.T) {
	zeros := NewList([]Object{&Float{Value: 0}, &Float{Value: math.Copysign(0, -1)}})
	require.True(t, ObjectsEqual(zeros.Get(0), zeros.Get(1)))

	got, err := Evaluate(&Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "x"}, Source: zeros}},
		Body:       lookup("x"),
		Policy:     Uniq(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.(*List).Len())

	got, err = Evaluate(&Comprehension{
		Generators: []Generator{{Pattern: &BindAll{Name: "k"}, Source: zeros}},
		Body: func(env *Environment) (Object, error) {
			k, _ := env.Get("k")
			return NewTuple(k, &Integer{Value: 1}), nil
		},
		Policy: MergeInto(NewMap()),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.(*Map).Len())
}

func TestSeedsEvaluatedWhenPolicyStarts(t *testing.T) {
	node, err := parser.ParseComprehension("[n + acc | n <- [1, 2]; reduce base]")
	require.NoError(t, err)

	env := NewEnvironment()
	c, err := New().Compile(node, env)
	require.NoError(t, err, "compiling must not evaluate the seed")

	_, err = Evaluate(c)
	var unbound *UnboundError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, "base", unbound.Name)
	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, StagePolicy, ee.Stage)

	env.Set("base", &Integer{Value: 10})
	got, err := Evaluate(c)
	require.NoError(t, err)
	assertObject(t, &Integer{Value: 13}, got)

	node, err = parser.ParseComprehension(`[(k, 1) | k <- ["a", "b", "a"]; uniq, into seed]`)
	require.NoError(t, err)
	c, err = New().Compile(node, env)
	require.NoError(t, err)
	assert.Equal(t, "uniq, into seed", c.Policy.String())
	env.Set("seed", strMap("z", 0))
	got, err = Evaluate(c)
	require.NoError(t, err)
	assert.Equal(t, `{"z": 0, "a": 1, "b": 1}`, got.Inspect())
}
