package sources

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func load(t *testing.T, spec Spec, opts Options, env *evaluator.Environment) evaluator.Object {
	t.Helper()
	p, err := NewRegistry().New(spec, opts)
	require.NoError(t, err)
	obj, err := p.Load(context.Background(), env)
	require.NoError(t, err)
	return obj
}

func TestValuesAndRange(t *testing.T) {
	v := evaluator.NewList([]evaluator.Object{&evaluator.Integer{Value: 1}})
	assert.Equal(t, "[1]", load(t, Spec{Name: "v", Kind: config.SourceValues, Values: v}, Options{}, nil).Inspect())

	r := load(t, Spec{Name: "r", Kind: config.SourceRange, Start: 1, End: 3}, Options{}, nil)
	assert.Equal(t, "1..3", r.Inspect())
}

func TestExprSeesEarlierSources(t *testing.T) {
	env := evaluator.NewEnvironment()
	env.Set("xs", &evaluator.Range{Start: 1, End: 4, Step: 1})
	got := load(t, Spec{Name: "evens", Kind: config.SourceExpr, Expr: "[x | x <- xs, x % 2 == 0]"}, Options{}, env)
	assert.Equal(t, "[2, 4]", got.Inspect())
}

func TestRandomIsSeeded(t *testing.T) {
	spec := Spec{Name: "people", Kind: config.SourceRandom, Sample: config.SampleEmployees, Count: 30}
	a := load(t, spec, Options{Seed: 3}, nil)
	b := load(t, spec, Options{Seed: 3}, nil)
	assert.Equal(t, a.Inspect(), b.Inspect())

	seed := int64(4)
	spec.Seed = &seed
	c := load(t, spec, Options{Seed: 3}, nil)
	assert.NotEqual(t, a.Inspect(), c.Inspect())

	list := a.(*evaluator.List)
	require.Equal(t, 30, list.Len())
	withHobbies := 0
	for _, item := range list.ToSlice() {
		m := item.(*evaluator.Map)
		_, ok := m.GetString("department")
		assert.True(t, ok)
		if _, ok := m.GetString("hobbies"); ok {
			withHobbies++
		}
	}
	assert.Greater(t, withHobbies, 0)
	assert.Less(t, withHobbies, 30)
}

func TestRandomDefaults(t *testing.T) {
	got := load(t, Spec{Name: "n", Kind: config.SourceRandom}, Options{}, nil).(*evaluator.List)
	assert.Equal(t, 10, got.Len())
	for _, item := range got.ToSlice() {
		n := item.(*evaluator.Integer).Value
		assert.True(t, n >= 1 && n <= 100, "out of range: %d", n)
	}
}

func TestFileSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "words.txt"), []byte("one\ntwo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.yaml"), []byte("- a: 1\n- a: 2\n"), 0o644))

	opts := Options{BaseDir: dir}
	lines := load(t, Spec{Name: "w", Kind: config.SourceFile, Path: "words.txt"}, opts, nil)
	assert.Equal(t, `["one", "two"]`, lines.Inspect())

	doc := load(t, Spec{Name: "d", Kind: config.SourceFile, Path: "data.yaml", Format: config.FormatYAML}, opts, nil)
	assert.Equal(t, `[{"a": 1}, {"a": 2}]`, doc.Inspect())
}

func TestSQLSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open(DefaultDriver, path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE people (name TEXT, age INTEGER, score REAL, note TEXT);
INSERT INTO people VALUES ('ann', 31, 1.5, NULL), ('bob', 27, 2.0, 'x');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	got := load(t, Spec{
		Name:  "people",
		Kind:  config.SourceSQL,
		DSN:   "people.db",
		Query: "SELECT name, age, score, note FROM people ORDER BY name",
	}, Options{BaseDir: filepath.Dir(path)}, nil)
	assert.Equal(t, `[{"name": "ann", "age": 31, "score": 1.5, "note": nil}, {"name": "bob", "age": 27, "score": 2.0, "note": "x"}]`, got.Inspect())
}

func TestRegistryErrors(t *testing.T) {
	cases := []struct {
		spec Spec
		want string
	}{
		{Spec{Name: "a", Kind: "ftp"}, "unknown kind"},
		{Spec{Name: "b", Kind: config.SourceValues}, "needs values"},
		{Spec{Name: "c", Kind: config.SourceExpr}, "needs an expression"},
		{Spec{Name: "d", Kind: config.SourceRandom, Sample: "cats"}, "unknown sample"},
		{Spec{Name: "e", Kind: config.SourceRandom, Count: -1}, "negative"},
		{Spec{Name: "f", Kind: config.SourceSQL, DSN: "x.db"}, "needs a query"},
		{Spec{Name: "g", Kind: config.SourceSQL, Query: "SELECT 1"}, "needs a dsn"},
		{Spec{Name: "h", Kind: config.SourceFile}, "needs a path"},
	}
	r := NewRegistry()
	for _, tc := range cases {
		_, err := r.New(tc.spec, Options{})
		if assert.Error(t, err, tc.spec.Name) {
			assert.True(t, strings.Contains(err.Error(), tc.want), "%s: %v", tc.spec.Name, err)
			assert.True(t, strings.HasPrefix(err.Error(), "source "+tc.spec.Name), err.Error())
		}
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	p, err := NewRegistry().New(Spec{Name: "n", Kind: config.SourceRandom, Count: 5}, Options{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Load(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
