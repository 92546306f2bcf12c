package evaluator

import (
	"fmt"

	"github.com/funvibe/comprex/internal/ast"
	"github.com/funvibe/comprex/internal/parser"
)

// Eval evaluates an expression in env.
func (e *Evaluator) Eval(node ast.Expression, env *Environment) (Object, error) {
	switch node := node.(type) {
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}, nil
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}, nil
	case *ast.StringLiteral:
		return NewString(node.Value), nil
	case *ast.CharLiteral:
		return &Char{Value: node.Value}, nil
	case *ast.BitsLiteral:
		return BitsFromBinary(node.Value)
	case *ast.BooleanLiteral:
		return nativeBool(node.Value), nil
	case *ast.NilLiteral:
		return NIL, nil
	case *ast.Identifier:
		return env.Lookup(node.Value)
	case *ast.TupleLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return NewTuple(elements...), nil
	case *ast.ListLiteral:
		elements, err := e.evalExpressions(node.Elements, env)
		if err != nil {
			return nil, err
		}
		return NewList(elements), nil
	case *ast.MapLiteral:
		return e.evalMapLiteral(node, env)
	case *ast.RangeExpression:
		return e.evalRangeExpression(node, env)
	case *ast.PrefixExpression:
		right, err := e.Eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return evalPrefix(node.Operator, right)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.MemberExpression:
		left, err := e.Eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		m, ok := left.(*Map)
		if !ok {
			return nil, fmt.Errorf("cannot access .%s on %s", node.Member.Value, TypeName(left))
		}
		val, ok := m.GetString(node.Member.Value)
		if !ok {
			return nil, fmt.Errorf("key %q not found", node.Member.Value)
		}
		return val, nil
	case *ast.ListComprehension:
		c, err := e.Compile(node, env)
		if err != nil {
			return nil, err
		}
		// a nested comprehension keeps its own counters
		return (&Evaluator{Logger: e.Logger}).Evaluate(c)
	case nil:
		return nil, fmt.Errorf("missing expression")
	default:
		return nil, fmt.Errorf("unsupported expression %T", node)
	}
}

// EvalString parses src and evaluates it in env.
func (e *Evaluator) EvalString(src string, env *Environment) (Object, error) {
	expr, err := parser.ParseExpression(src)
	if err != nil {
		return nil, err
	}
	return e.Eval(expr, env)
}

func (e *Evaluator) evalExpressions(exprs []ast.Expression, env *Environment) ([]Object, error) {
	out := make([]Object, 0, len(exprs))
	for _, expr := range exprs {
		val, err := e.Eval(expr, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (e *Evaluator) evalMapLiteral(node *ast.MapLiteral, env *Environment) (Object, error) {
	m := NewMap()
	for _, entry := range node.Entries {
		key, err := e.Eval(entry.Key, env)
		if err != nil {
			return nil, err
		}
		val, err := e.Eval(entry.Value, env)
		if err != nil {
			return nil, err
		}
		m.put(key, val)
	}
	return m, nil
}

func (e *Evaluator) evalRangeExpression(node *ast.RangeExpression, env *Environment) (Object, error) {
	start, err := e.Eval(node.Start, env)
	if err != nil {
		return nil, err
	}
	end, err := e.Eval(node.End, env)
	if err != nil {
		return nil, err
	}
	return makeRange(start, end, &Integer{Value: 1})
}

func makeRange(start, end, step Object) (*Range, error) {
	st, ok := step.(*Integer)
	if !ok {
		return nil, fmt.Errorf("range step must be Int, got %s", TypeName(step))
	}
	switch s := start.(type) {
	case *Integer:
		if e, ok := end.(*Integer); ok {
			return &Range{Start: s.Value, End: e.Value, Step: st.Value}, nil
		}
	case *Char:
		if e, ok := end.(*Char); ok {
			return &Range{Start: s.Value, End: e.Value, Step: st.Value, IsChar: true}, nil
		}
	}
	return nil, fmt.Errorf("range bounds must both be Int or both Char, got %s and %s", TypeName(start), TypeName(end))
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) (Object, error) {
	left, err := e.Eval(node.Left, env)
	if err != nil {
		return nil, err
	}

	// && and || short-circuit
	if node.Operator == "&&" || node.Operator == "||" {
		l, ok := left.(*Boolean)
		if !ok {
			return nil, fmt.Errorf("operator %s expects Bool, got %s", node.Operator, TypeName(left))
		}
		if l.Value == (node.Operator == "||") {
			return l, nil
		}
		right, err := e.Eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		if _, ok := right.(*Boolean); !ok {
			return nil, fmt.Errorf("operator %s expects Bool, got %s", node.Operator, TypeName(right))
		}
		return right, nil
	}

	right, err := e.Eval(node.Right, env)
	if err != nil {
		return nil, err
	}
	return evalInfix(node.Operator, left, right)
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) (Object, error) {
	name := node.Function.Value
	builtin, ok := Builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %s", name)
	}
	args, err := e.evalExpressions(node.Arguments, env)
	if err != nil {
		return nil, err
	}
	return builtin.Call(args)
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) (Object, error) {
	left, err := e.Eval(node.Left, env)
	if err != nil {
		return nil, err
	}
	index, err := e.Eval(node.Index, env)
	if err != nil {
		return nil, err
	}
	return Index(left, index)
}

// Index returns container[index]. Negative indices count from the end.
func Index(container, index Object) (Object, error) {
	if m, ok := container.(*Map); ok {
		val, found := m.Get(index)
		if !found {
			return nil, fmt.Errorf("key %s not found", index.Inspect())
		}
		return val, nil
	}

	i, ok := index.(*Integer)
	if !ok {
		return nil, fmt.Errorf("index must be Int, got %s", TypeName(index))
	}
	var elements []Object
	switch c := container.(type) {
	case *List:
		elements = c.ToSlice()
	case *Tuple:
		elements = c.Elements
	case *Bits, *Range:
		elements, _ = Elements(c)
	default:
		return nil, fmt.Errorf("cannot index %s", TypeName(container))
	}
	pos := int(i.Value)
	if pos < 0 {
		pos += len(elements)
	}
	if pos < 0 || pos >= len(elements) {
		return nil, fmt.Errorf("index %d out of range for length %d", i.Value, len(elements))
	}
	return elements[pos], nil
}
