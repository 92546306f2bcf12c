package evaluator

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		n    int64
		base int64
		want []int64
	}{
		{0, 10, []int64{0}},
		{1234, 10, []int64{1, 2, 3, 4}},
		{-12, 10, []int64{-1, -2}},
		{10, 2, []int64{1, 0, 1, 0}},
		{255, 16, []int64{15, 15}},
	}
	for _, tt := range tests {
		digits, err := Digits(tt.n, tt.base)
		if err != nil {
			t.Fatalf("Digits(%d, %d): %v", tt.n, tt.base, err)
		}
		got := make([]int64, len(digits))
		for i, d := range digits {
			got[i] = d.(*Integer).Value
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Digits(%d, %d) mismatch (-want +got):\n%s", tt.n, tt.base, diff)
		}

		back, err := Undigits(digits, tt.base)
		if err != nil {
			t.Fatalf("Undigits: %v", err)
		}
		if back.Value != tt.n {
			t.Errorf("Undigits(Digits(%d)) = %d", tt.n, back.Value)
		}
	}

	if _, err := Digits(5, 1); err == nil {
		t.Error("expected error for base 1")
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		kind  string
		input Object
		want  string
	}{
		{"list", NewTuple(&Integer{Value: 1}, NewString("a")), `[1, "a"]`},
		{"list", &Range{Start: 'a', End: 'c', Step: 1, IsChar: true}, `"abc"`},
		{"tuple", ints(1, 2), "(1, 2)"},
		{"string", &Integer{Value: 42}, `"42"`},
		{"string", NewList([]Object{&Char{Value: 'h'}, &Char{Value: 'i'}}), `"hi"`},
		{"chars", NewString("ab"), `"ab"`},
		{"digits", &Integer{Value: 907}, "[9, 0, 7]"},
		{"digits", NewString("31"), "[3, 1]"},
		{"bits", &Integer{Value: 6}, `#b"110"`},
		{"bits", NewString("0011"), `#b"0011"`},
		{"bits", ints(1, 0, 1), `#b"101"`},
		{"integer", &Char{Value: 'A'}, "65"},
		{"integer", NewString(" 17 "), "17"},
		{"integer", ints(4, 2), "42"},
		{"integer", &Float{Value: 3.9}, "3"},
		{"list", strMap("k", 1), `[("k", 1)]`},
	}
	for _, tt := range tests {
		t.Run(tt.kind+" "+tt.input.Inspect(), func(t *testing.T) {
			got, err := Convert(tt.kind, tt.input)
			if err != nil {
				t.Fatalf("Convert(%s, %s): %v", tt.kind, tt.input.Inspect(), err)
			}
			if got.Inspect() != tt.want {
				t.Errorf("Convert(%s, %s) = %s, want %s", tt.kind, tt.input.Inspect(), got.Inspect(), tt.want)
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		kind  string
		input Object
	}{
		{"bits", &Integer{Value: -1}},
		{"bits", ints(2)},
		{"integer", NewString("x1")},
		{"integer", NIL},
		{"chars", &Integer{Value: 1}},
		{"list", &Integer{Value: 1}},
		{"nope", NIL},
	}
	for _, tt := range tests {
		if _, err := Convert(tt.kind, tt.input); err == nil {
			t.Errorf("Convert(%s, %s) expected error", tt.kind, tt.input.Inspect())
		}
	}
}

func TestUndigitsOverflow(t *testing.T) {
	nines := make([]Object, 20)
	for i := range nines {
		nines[i] = &Integer{Value: 9}
	}
	if _, err := Undigits(nines, 10); err == nil {
		t.Error("expected out of range error for 20 nines")
	}

	max, err := Digits(math.MaxInt64, 10)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Undigits(max, 10)
	if err != nil || back.Value != math.MaxInt64 {
		t.Errorf("Undigits(Digits(MaxInt64)) = %v, %v", back, err)
	}
}

func TestRangeNearIntLimits(t *testing.T) {
	tests := []struct {
		r    Range
		want []int64
	}{
		{Range{Start: 0, End: math.MaxInt64, Step: math.MaxInt64}, []int64{0, math.MaxInt64}},
		{Range{Start: math.MaxInt64 - 1, End: math.MaxInt64, Step: 1}, []int64{math.MaxInt64 - 1, math.MaxInt64}},
		{Range{Start: math.MinInt64, End: math.MinInt64, Step: 1}, []int64{math.MinInt64}},
		{Range{Start: math.MinInt64 + 1, End: math.MinInt64, Step: -1}, []int64{math.MinInt64 + 1, math.MinInt64}},
		{Range{Start: math.MaxInt64, End: math.MinInt64, Step: math.MinInt64}, []int64{math.MaxInt64, -1}},
		{Range{Start: 1, End: 10, Step: 4}, []int64{1, 5, 9}},
		{Range{Start: 3, End: 1, Step: 1}, []int64{}},
	}
	for _, tt := range tests {
		got := []int64{}
		for _, el := range tt.r.Elements() {
			got = append(got, el.(*Integer).Value)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tt.r.Inspect(), diff)
		}
	}
}
