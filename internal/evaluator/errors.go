package evaluator

import (
	"errors"
	"fmt"
)

// Stage identifies the part of an evaluation that failed.
type Stage string

const (
	StageSource  Stage = "source"
	StagePattern Stage = "pattern"
	StageFilter  Stage = "filter"
	StageBody    Stage = "body"
	StageStep    Stage = "step"
	StageMerge   Stage = "merge"
	StagePolicy  Stage = "policy"
)

var (
	// ErrContractViolation marks inputs that break the evaluator's type contract,
	// e.g. a merge body that does not produce a key-value pair.
	ErrContractViolation = errors.New("contract violation")

	// ErrDivisionByZero is returned by integer division and modulo.
	ErrDivisionByZero = errors.New("division by zero")
)

// UnboundError is returned when a name is looked up outside its scope.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("name %q is not bound", e.Name)
}

// EvalError is a fatal evaluation failure. No partial result accompanies it.
type EvalError struct {
	Stage     Stage
	Generator int // index of the generator involved, -1 if none
	Err       error
}

func (e *EvalError) Error() string {
	if e.Generator >= 0 {
		return fmt.Sprintf("%s (generator %d): %v", e.Stage, e.Generator, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

func stageError(stage Stage, gen int, err error) error {
	var ee *EvalError
	if errors.As(err, &ee) {
		return err
	}
	return &EvalError{Stage: stage, Generator: gen, Err: err}
}

func contractError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...))
}
