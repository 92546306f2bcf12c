package prettyprinter

import (
	"bytes"
	"testing"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
)

func str(s string) evaluator.Object { return evaluator.NewString(s) }
func num(n int64) evaluator.Object  { return &evaluator.Integer{Value: n} }

func TestFormatCompact(t *testing.T) {
	obj := evaluator.NewList([]evaluator.Object{num(1), evaluator.NewTuple(str("a"), evaluator.TRUE)})
	if got := Format(obj, 80, false); got != obj.Inspect() {
		t.Errorf("Format = %q, want %q", got, obj.Inspect())
	}
	if got := Format(obj, 0, false); got != obj.Inspect() {
		t.Errorf("unlimited width: %q", got)
	}
}

func TestFormatBreaksLongContainers(t *testing.T) {
	m := evaluator.NewMap().
		Put(str("alpha"), evaluator.NewList([]evaluator.Object{num(1), num(2), num(3)})).
		Put(str("beta"), evaluator.NewTuple(num(4)))

	want := `{
    "alpha": [1, 2, 3],
    "beta": (4,)
}`
	if got := Format(m, 24, false); got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}

	want = `{
    "alpha": [
        1,
        2,
        3
    ],
    "beta": (
        4,
    )
}`
	if got := Format(m, 10, false); got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatColor(t *testing.T) {
	got := Format(evaluator.NewTuple(num(1), str("x"), evaluator.NIL), 80, true)
	want := "(\033[36m1\033[39m, \033[32m\"x\"\033[39m, \033[33mnil\033[39m)"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestColorEnabled(t *testing.T) {
	env := func(kv map[string]string) func(string) string {
		return func(k string) string { return kv[k] }
	}
	var buf bytes.Buffer
	tests := []struct {
		mode string
		env  map[string]string
		want bool
	}{
		{config.ColorAlways, nil, true},
		{config.ColorNever, nil, false},
		{config.ColorAuto, nil, false},
		{config.ColorAuto, map[string]string{"NO_COLOR": "1"}, false},
	}
	for _, tt := range tests {
		if got := ColorEnabled(tt.mode, &buf, env(tt.env)); got != tt.want {
			t.Errorf("ColorEnabled(%s, %v) = %v, want %v", tt.mode, tt.env, got, tt.want)
		}
	}
}

func TestWriterLines(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, config.FormatLines, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write("squares", evaluator.NewList([]evaluator.Object{num(1), num(4)})); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("", str("hi")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "squares = [1, 4]\n\"hi\"\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, config.FormatYAML, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write("pairs", evaluator.NewMap().Put(str("a"), num(2))); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("n", num(3)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	want := "pairs:\n    a: 2\n---\nn: 3\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := NewWriter(&buf, "xml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		obj  evaluator.Object
		want string
	}{
		{evaluator.NewList([]evaluator.Object{num(1)}), "List of 1"},
		{evaluator.NewMap(), "Map of 0"},
		{num(1), "Int"},
		{evaluator.NewTuple(num(1), num(2)), "Tuple of 2"},
	}
	for _, tt := range tests {
		if got := Describe(tt.obj); got != tt.want {
			t.Errorf("Describe(%s) = %q, want %q", tt.obj.Inspect(), got, tt.want)
		}
	}
}
