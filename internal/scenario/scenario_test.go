package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/sources"
)

func results(t *testing.T, path string) map[string]Result {
	t.Helper()
	s, err := Load(path)
	require.NoError(t, err)
	r := NewRunner(zaptest.NewLogger(t))
	require.NoError(t, r.Check(s))
	res, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	byName := make(map[string]Result, len(res))
	for _, r := range res {
		byName[r.Name] = r
	}
	return byName
}

func TestRunYAML(t *testing.T) {
	got := results(t, filepath.Join("testdata", "people.yaml"))

	want := map[string]string{
		"squares":      "[1, 4, 9, 16, 25]",
		"hobbies":      `["chess", "piano"]`,
		"by_person":    `{"ann": 2}`,
		"total":        "6",
		"square_count": "5",
	}
	for name, w := range want {
		assert.Equal(t, w, got[name].Value.Inspect(), name)
	}
	assert.Equal(t, 1, got["hobbies"].Stats.PatternSkips, "bob has no hobbies")
	assert.Equal(t, 1, got["by_person"].Stats.Filtered)

	depts := got["departments"].Value.(*evaluator.List)
	assert.Greater(t, depts.Len(), 0)
	assert.LessOrEqual(t, depts.Len(), 4)
}

func TestRunYAMLIsSeeded(t *testing.T) {
	a := results(t, filepath.Join("testdata", "people.yaml"))
	b := results(t, filepath.Join("testdata", "people.yaml"))
	assert.Equal(t, a["departments"].Value.Inspect(), b["departments"].Value.Inspect())
}

func TestRunHCL(t *testing.T) {
	got := results(t, filepath.Join("testdata", "scores.hcl"))
	assert.Equal(t, `{"bob": 10}`, got["doubled"].Value.Inspect())
	assert.Equal(t, "6", got["product"].Value.Inspect())
	assert.Equal(t, `"ABC"`, got["word"].Value.Inspect())
}

func TestHCLSeedAndValues(t *testing.T) {
	s, err := parseHCL([]byte(`
seed = 9
source "values" "xs" {
  values = [1, 2.5, "a", true]
}
source "random" "r" {
  sample = "numbers"
  count  = 2
  seed   = 4
}
`), "inline.hcl")
	require.NoError(t, err)
	require.NotNil(t, s.Seed)
	assert.Equal(t, int64(9), *s.Seed)
	require.Len(t, s.Sources, 2)
	assert.Equal(t, `[1, 2.5, "a", true]`, s.Sources[0].Values.Inspect())
	assert.Nil(t, s.Sources[1].Values)
	require.NotNil(t, s.Sources[1].Seed)
	assert.Equal(t, int64(4), *s.Sources[1].Seed)
}

func TestParseYAMLValues(t *testing.T) {
	s, err := parseYAML([]byte(`
sources:
  - name: m
    kind: values
    values: {b: 1, a: [x, 2]}
  - name: r
    kind: range
    end: 3
`), "inline.yaml")
	require.NoError(t, err)
	assert.Nil(t, s.Seed)
	assert.Equal(t, `{"b": 1, "a": ["x", 2]}`, s.Sources[0].Values.Inspect())
	assert.Nil(t, s.Sources[1].Values)
	assert.Equal(t, config.SourceRange, s.Sources[1].Kind)
}

func TestFilterBeforeItsGeneratorIsRejected(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "broken.yaml"))
	require.NoError(t, err)
	r := NewRunner(nil)

	for _, err := range []error{r.Check(s), runErr(r, s)} {
		require.Error(t, err)
		var unbound *evaluator.UnboundError
		require.True(t, errors.As(err, &unbound), err.Error())
		assert.Equal(t, "y", unbound.Name)
		assert.Contains(t, err.Error(), "comprehension bad")
	}
}

func runErr(r *Runner, s *Scenario) error {
	_, err := r.Run(context.Background(), s)
	return err
}

func TestCheckAcceptsSeedsNamingEarlierResults(t *testing.T) {
	s, err := parseYAML([]byte(`
sources:
  - name: nums
    kind: range
    start: 1
    end: 3
  - name: base
    kind: values
    values: 10
comprehensions:
  - name: total
    expr: "[n + acc | n <- nums; reduce base]"
  - name: counts
    expr: "[(n, 1) | n <- nums; into {}]"
  - name: more
    expr: "[(n, 2) | n <- [4]; into counts]"
`), "seeds.yaml")
	require.NoError(t, err)

	r := NewRunner(zaptest.NewLogger(t))
	require.NoError(t, r.Check(s))

	results, err := r.Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "16", results[0].Value.Inspect())
	assert.Equal(t, "{1: 1, 2: 1, 3: 1, 4: 2}", results[2].Value.Inspect())
}

func TestStructuredParse(t *testing.T) {
	c := Comprehension{
		Name: "pairs",
		Generators: []Generator{
			{Pattern: "x", Source: "xs", Where: []string{"x > 1"}},
			{Pattern: "(a, _)", Source: "ps"},
		},
		Filters: []string{"a != x"},
		Body:    "(x, a)",
		Uniq:    true,
	}
	node, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, "[(x, a) | x <- xs, (x > 1), (a, _) <- ps, (a != x); uniq]", node.String())

	c.Reduce = "0"
	_, err = c.Parse()
	assert.ErrorContains(t, err, "reduce cannot be combined")
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"dup", "sources:\n  - {name: a, kind: range}\ncomprehensions:\n  - {name: a, expr: '[x | x <- a]'}\n", "already declared"},
		{"noname", "sources:\n  - {kind: range}\n", "without a name"},
		{"both", "comprehensions:\n  - name: c\n    expr: '[x | x <- a]'\n    generators: [{pattern: x, source: a}]\n", "exclusive"},
		{"neither", "comprehensions:\n  - name: c\n", "needs expr or generators"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := parseYAML([]byte(tc.src), "x.yaml")
			require.NoError(t, err)
			assert.ErrorContains(t, s.validate(), tc.want)
		})
	}

	_, err := Load("scenario.toml")
	assert.ErrorContains(t, err, "unknown scenario format")
}

func TestCheckReportsBadSyntax(t *testing.T) {
	s := &Scenario{
		Path:           "inline.yaml",
		Comprehensions: []Comprehension{{Name: "bad", Expr: "[x | x <-]"}},
	}
	err := NewRunner(nil).Check(s)
	assert.ErrorContains(t, err, "comprehension bad")

	s = &Scenario{
		Path:    "inline.yaml",
		Sources: []sources.Spec{{Name: "x", Kind: "ftp"}},
	}
	err = NewRunner(nil).Check(s)
	assert.ErrorContains(t, err, "unknown kind")
}
