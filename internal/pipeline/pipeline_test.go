package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/funvibe/comprex/internal/evaluator"
)

func TestEvalComprehensionRecordsStats(t *testing.T) {
	val, stats, err := Eval("[x | (x, _) <- [(1, 1), 2, (3, 1)], x > 1]", nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "[3]", val.Inspect())
	assert.Equal(t, evaluator.Stats{Combinations: 2, PatternSkips: 1, Filtered: 1, Emitted: 1}, stats)
}

func TestEvalPlainExpression(t *testing.T) {
	env := evaluator.NewEnvironment()
	env.Set("n", &evaluator.Integer{Value: 4})

	ctx := Default().Run(NewContext("n * 2", env, nil))
	require.NoError(t, ctx.Err)
	assert.Nil(t, ctx.Comprehension)
	assert.Equal(t, StageEvaluate, ctx.Stage)
	assert.Equal(t, "8", ctx.Result.Inspect())
	assert.Equal(t, evaluator.Stats{}, ctx.Stats)
}

func TestRunStopsAtFailingStage(t *testing.T) {
	tests := []struct {
		src   string
		stage string
	}{
		{"[x | x <- ]", StageParse},
		{"[y | x <- [1], y > 0, y <- [2]]", StageCompile},
		{"[x | x <- [1]; reduce seed]", StageEvaluate},
		{"[x / 0 | x <- [1]]", StageEvaluate},
	}
	for _, tt := range tests {
		ctx := Default().Run(NewContext(tt.src, nil, nil))
		if assert.Error(t, ctx.Err, tt.src) {
			assert.Equal(t, tt.stage, ctx.Stage, tt.src)
			assert.Nil(t, ctx.Result, tt.src)
		}
	}
}
