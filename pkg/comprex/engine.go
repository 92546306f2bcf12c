// Package comprex embeds the comprehension evaluator in Go programs, either
// through the expression language or through a builder.
package comprex

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/comprex/internal/evaluator"
	"github.com/funvibe/comprex/internal/marshal"
)

// Value is an evaluator value.
type Value = evaluator.Object

// Engine holds global bindings visible to every evaluated expression.
type Engine struct {
	globals    *evaluator.Environment
	marshaller *marshal.Marshaller
	logger     *zap.Logger
}

// New creates an Engine with no globals.
func New() *Engine {
	return &Engine{
		globals:    evaluator.NewEnvironment(),
		marshaller: marshal.NewMarshaller(),
		logger:     zap.NewNop(),
	}
}

// SetLogger makes evaluations log their statistics at debug level.
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.logger = logger
}

// Set converts a Go value and binds it as a global.
func (e *Engine) Set(name string, val interface{}) error {
	obj, err := e.marshaller.ToValue(val)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	e.globals.Set(name, obj)
	return nil
}

// SetValue binds an evaluator value as a global.
func (e *Engine) SetValue(name string, val Value) {
	e.globals.Set(name, val)
}

// Get retrieves a global as a Go value.
func (e *Engine) Get(name string) (interface{}, error) {
	obj, ok := e.globals.Get(name)
	if !ok {
		return nil, fmt.Errorf("variable '%s' not found", name)
	}
	return e.marshaller.FromValue(obj, nil)
}

// Globals lists the bound names, sorted.
func (e *Engine) Globals() []string {
	return e.globals.Names()
}

// EvalValue evaluates an expression over the globals.
func (e *Engine) EvalValue(code string) (Value, error) {
	ev := &evaluator.Evaluator{Logger: e.logger}
	return ev.EvalString(code, e.globals)
}

// Eval evaluates an expression and converts the result to a Go value.
// Strings become string, lists []interface{}, maps map[string]interface{}
// when every key is a string.
func (e *Engine) Eval(code string) (interface{}, error) {
	obj, err := e.EvalValue(code)
	if err != nil {
		return nil, err
	}
	return e.marshaller.FromValue(obj, nil)
}

// Convert converts a Go value to an evaluator value.
func Convert(val interface{}) (Value, error) {
	return marshal.NewMarshaller().ToValue(val)
}

// ToGo converts an evaluator value to a Go value.
func ToGo(val Value) (interface{}, error) {
	return marshal.NewMarshaller().FromValue(val, nil)
}
