package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/parser"
)

const (
	StageParse    = "parse"
	StageCompile  = "compile"
	StageEvaluate = "evaluate"
)

type ParseProcessor struct{}

func (p *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	ctx.Stage = StageParse
	ctx.Expr, ctx.Err = parser.ParseExpression(ctx.Source)
	return ctx
}

// CompileProcessor compiles a top-level comprehension. Other expressions
// pass through untouched.
type CompileProcessor struct{}

func (p *CompileProcessor) Process(ctx *PipelineContext) *PipelineContext {
	node, ok := ctx.Expr.(*ast.ListComprehension)
	if !ok {
		return ctx
	}
	ctx.Stage = StageCompile
	ctx.Comprehension, ctx.Err = evaluator.New().Compile(node, ctx.Env)
	return ctx
}

// EvaluateProcessor evaluates the compiled comprehension, or the plain
// expression when there is none, and records the statistics.
type EvaluateProcessor struct{}

func (p *EvaluateProcessor) Process(ctx *PipelineContext) *PipelineContext {
	ctx.Stage = StageEvaluate
	ev := &evaluator.Evaluator{Logger: ctx.Logger}
	if ctx.Comprehension != nil {
		ctx.Result, ctx.Err = ev.Evaluate(ctx.Comprehension)
		ctx.Stats = ev.Stats
	} else if ctx.Expr != nil {
		ctx.Result, ctx.Err = ev.Eval(ctx.Expr, ctx.Env)
	} else {
		ctx.Err = fmt.Errorf("nothing to evaluate")
	}
	if ctx.Err == nil {
		ctx.Logger.Debug("Evaluated expression",
			zap.String("type", evaluator.TypeName(ctx.Result)),
			zap.Int("combinations", ctx.Stats.Combinations),
			zap.Int("emitted", ctx.Stats.Emitted),
		)
	}
	return ctx
}

// Eval runs the default pipeline over src.
func Eval(src string, env *evaluator.Environment, logger *zap.Logger) (evaluator.Object, evaluator.Stats, error) {
	ctx := Default().Run(NewContext(src, env, logger))
	return ctx.Result, ctx.Stats, ctx.Err
}
