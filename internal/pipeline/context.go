package pipeline

import (
	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/evaluator"
)

// PipelineContext carries one expression through the stages.
type PipelineContext struct {
	Source string
	Env    *evaluator.Environment
	Logger *zap.Logger

	Expr          ast.Expression
	Comprehension *evaluator.Comprehension // set when Expr is a comprehension
	Result        evaluator.Object
	Stats         evaluator.Stats

	// Stage names the last stage that ran.
	Stage string
	Err   error
}

func NewContext(src string, env *evaluator.Environment, logger *zap.Logger) *PipelineContext {
	if env == nil {
		env = evaluator.NewEnvironment()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineContext{Source: src, Env: env, Logger: logger}
}

// Processor is one stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}
