package comprex

import "github.com/funvibe/comprex/internal/evaluator"

type (
	Map   = evaluator.Map
	List  = evaluator.List
	Tuple = evaluator.Tuple
	Range = evaluator.Range
)

func Int(n int64) Value          { return &evaluator.Integer{Value: n} }
func Float(f float64) Value      { return &evaluator.Float{Value: f} }
func Bool(b bool) Value          { return &evaluator.Boolean{Value: b} }
func Char(r rune) Value          { return &evaluator.Char{Value: int64(r)} }
func String(s string) *List      { return evaluator.NewString(s) }
func NewList(v ...Value) *List   { return evaluator.NewList(v) }
func NewTuple(v ...Value) *Tuple { return evaluator.NewTuple(v...) }
func NewMap() *Map               { return evaluator.NewMap() }

// IntRange is the inclusive range start..end.
func IntRange(start, end int64) *Range {
	return &evaluator.Range{Start: start, End: end, Step: 1}
}

// Equal reports deep value equality.
func Equal(a, b Value) bool { return evaluator.ObjectsEqual(a, b) }
