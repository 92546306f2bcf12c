package evaluator

import (
	"errors"
	"testing"

	"github.com/funvibe/comprex/internal/parser"
)

func TestEvalString(t *testing.T) {
	env := NewEnvironment()
	env.Set("numbers", ints(1, 2))
	env.Set("letters", NewList([]Object{NewString("a"), NewString("b")}))
	env.Set("people", NewList([]Object{
		strMap("name", "ada", "age", 36),
		strMap("nick", "x"),
		strMap("name", "bob", "age", 25),
	}))

	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "7"},
		{"7 / 2", "3"},
		{"7 % 3", "1"},
		{"1.5 + 1", "2.5"},
		{"-(2 + 3)", "-5"},
		{`"ab" ++ "cd"`, `"abcd"`},
		{"[1] ++ [2, 3]", "[1, 2, 3]"},
		{"(1,)", "(1,)"},
		{"(1, 'a')", "(1, 'a')"},
		{`{"k": 1}.k`, "1"},
		{"[10, 20, 30][-1]", "30"},
		{"1 < 2 && !(2 < 1)", "true"},
		{"false && (1 / 0 == 0)", "false"},
		{"[x | x <- [1, 2, 3]]", "[1, 2, 3]"},
		{"[x * x | x <- 1..5, x % 2 == 1]", "[1, 9, 25]"},
		{"[(x, y) | x <- 1..3, y <- x..3, x + y == 4]", "[(1, 3), (2, 2)]"},
		{"[c | c <- \"hello\"; uniq]", `"helo"`},
		{"[(letter, number) | number <- numbers, letter <- letters; into {}]", `{"a": 2, "b": 2}`},
		{"[n * acc | n <- 1..5; reduce 1]", "120"},
		{"[n * acc | n <- []; reduce 1]", "1"},
		{"[name | {name} <- people]", `["ada", "bob"]`},
		{"[(n, a) | {name: n, age: a} <- people, a > 30]", `[("ada", 36)]`},
		{"[k | (k, _) <- {\"x\": 1, \"y\": 2}]", `["x", "y"]`},
		{"[upper(c) | c <- \"abc\"; into \">\"]", `">ABC"`},
		{"[x | x <- [3, 1]; into [0]]", "[0, 3, 1]"},
		{"[b | b <- #b\"101\"]", "[1, 0, 1]"},
		{"[[y | y <- 1..x] | x <- 1..3]", "[[1], [1, 2], [1, 2, 3]]"},
		{"digits(1234)", "[1, 2, 3, 4]"},
		{"undigits([1, 2, 3])", "123"},
		{"integer(#b\"1010\")", "10"},
		{"bits(5)", `#b"101"`},
		{"tuple([1, 2])", "(1, 2)"},
		{"list((1, 2))", "[1, 2]"},
		{"string(12)", `"12"`},
		{"len(\"héllo\")", "5"},
		{"sum(1..4)", "10"},
		{"max(3, 9, 2)", "9"},
		{"sort([3, 1, 2])", "[1, 2, 3]"},
		{"reverse(\"abc\")", `"cba"`},
		{"range(10, 1, -3)", "10..1 by -3"},
		{"[x | x <- range(10, 1, -3)]", "[10, 7, 4, 1]"},
		{"get({\"a\": 1}, \"b\", 0)", "0"},
		{"has([1, 2], 2)", "true"},
		{"keys({\"a\": 1, \"b\": 2})", `["a", "b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := New().EvalString(tt.input, env)
			if err != nil {
				t.Fatalf("EvalString(%q) error: %v", tt.input, err)
			}
			if got.Inspect() != tt.expected {
				t.Errorf("EvalString(%q) = %s, want %s", tt.input, got.Inspect(), tt.expected)
			}
		})
	}
}

func TestEvalStringErrors(t *testing.T) {
	tests := []struct {
		input string
		is    error
	}{
		{"1 / 0", ErrDivisionByZero},
		{"[x | x <- 1..3, y > 1, y <- 1..3]", nil},
		{"[x | x <- 5]", ErrContractViolation},
		{"[x | x <- [1], x + 1]", ErrContractViolation},
		{"[x | x <- [1]; into 3]", ErrContractViolation},
		{"[x | x <- [1, 2]; into {}]", ErrContractViolation},
		{"nope(1)", nil},
		{"[x |", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New().EvalString(tt.input, NewEnvironment())
			if err == nil {
				t.Fatalf("EvalString(%q) expected error", tt.input)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("EvalString(%q) error = %v, want %v", tt.input, err, tt.is)
			}
		})
	}
}

func TestFilterBeforeGeneratorIsUnbound(t *testing.T) {
	_, err := New().EvalString("[x | x <- 1..3, y > 1, y <- 1..3]", NewEnvironment())
	var unbound *UnboundError
	if !errors.As(err, &unbound) || unbound.Name != "y" {
		t.Fatalf("expected unbound y, got %v", err)
	}
}

func TestDependsOn(t *testing.T) {
	bound := map[string]bool{"x": true}
	tests := []struct {
		input string
		want  bool
	}{
		{"1..3", false},
		{"[x, 0]", true},
		{"1..len(x)", true},
		{"{\"x\": 1}", false},
		{"[y | y <- x]", true},
		{"other.x", false},
	}
	for _, tt := range tests {
		expr, err := parser.ParseExpression(tt.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.input, err)
		}
		if got := dependsOn(expr, bound); got != tt.want {
			t.Errorf("dependsOn(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFilterBeforeGeneratorIgnoresGlobals(t *testing.T) {
	env := NewEnvironment()
	env.Set("y", &Integer{Value: 5})

	_, err := New().EvalString("[x | x <- 1..3, y > 1, y <- 1..3]", env)
	var unbound *UnboundError
	if !errors.As(err, &unbound) || unbound.Name != "y" {
		t.Fatalf("expected unbound y despite global y, got %v", err)
	}

	// a filter before the generator may still read the global through a
	// nested comprehension that binds the name itself
	tests := []struct {
		input string
		want  string
	}{
		{"[x | x <- 1..3, x < y]", "[1, 2, 3]"},
		{"[(x, y) | x <- 1..2, len([y | y <- 1..x]) > 1, y <- [0]]", "[(2, 0)]"},
	}
	for _, tt := range tests {
		got, err := New().EvalString(tt.input, env)
		if err != nil {
			t.Errorf("EvalString(%q): %v", tt.input, err)
			continue
		}
		if got.Inspect() != tt.want {
			t.Errorf("EvalString(%q) = %s, want %s", tt.input, got.Inspect(), tt.want)
		}
	}
}
