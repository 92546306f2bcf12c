// Package pipeline runs a source expression through parse, compile and
// evaluate stages, keeping the intermediate results of each.
package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default parses, compiles and evaluates.
func Default() *Pipeline {
	return New(&ParseProcessor{}, &CompileProcessor{}, &EvaluateProcessor{})
}

// Run executes the pipeline. It stops at the first stage that records an error.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Err != nil {
			break
		}
	}
	return ctx
}
