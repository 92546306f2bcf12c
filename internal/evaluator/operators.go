package evaluator

import (
	"fmt"
	"strings"
)

func evalPrefix(op string, right Object) (Object, error) {
	switch op {
	case "!":
		b, ok := right.(*Boolean)
		if !ok {
			return nil, fmt.Errorf("operator ! expects Bool, got %s", TypeName(right))
		}
		return nativeBool(!b.Value), nil
	case "-":
		switch r := right.(type) {
		case *Integer:
			return &Integer{Value: -r.Value}, nil
		case *Float:
			return &Float{Value: -r.Value}, nil
		}
		return nil, fmt.Errorf("operator - expects a number, got %s", TypeName(right))
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

func evalInfix(op string, left, right Object) (Object, error) {
	switch op {
	case "==":
		return nativeBool(ObjectsEqual(left, right)), nil
	case "!=":
		return nativeBool(!ObjectsEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		c, err := Compare(left, right)
		if err != nil {
			return nil, fmt.Errorf("operator %s: %w", op, err)
		}
		switch op {
		case "<":
			return nativeBool(c < 0), nil
		case "<=":
			return nativeBool(c <= 0), nil
		case ">":
			return nativeBool(c > 0), nil
		default:
			return nativeBool(c >= 0), nil
		}
	case "++":
		return concat(left, right)
	case "+", "-", "*", "/", "%":
		return arithmetic(op, left, right)
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

func arithmetic(op string, left, right Object) (Object, error) {
	if l, ok := left.(*Integer); ok {
		if r, ok := right.(*Integer); ok {
			return integerArithmetic(op, l.Value, r.Value)
		}
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %s not supported for %s and %s", op, TypeName(left), TypeName(right))
	}
	switch op {
	case "+":
		return &Float{Value: lf + rf}, nil
	case "-":
		return &Float{Value: lf - rf}, nil
	case "*":
		return &Float{Value: lf * rf}, nil
	case "/":
		return &Float{Value: lf / rf}, nil
	}
	return nil, fmt.Errorf("operator %s expects Int operands", op)
}

func integerArithmetic(op string, l, r int64) (Object, error) {
	switch op {
	case "+":
		return &Integer{Value: l + r}, nil
	case "-":
		return &Integer{Value: l - r}, nil
	case "*":
		return &Integer{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return &Integer{Value: l / r}, nil
	default:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return &Integer{Value: l % r}, nil
	}
}

func toFloat(obj Object) (float64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return float64(o.Value), true
	case *Float:
		return o.Value, true
	}
	return 0, false
}

func concat(left, right Object) (Object, error) {
	switch l := left.(type) {
	case *List:
		if r, ok := right.(*List); ok {
			return l.Concat(r), nil
		}
	case *Tuple:
		if r, ok := right.(*Tuple); ok {
			return NewTuple(append(append([]Object{}, l.Elements...), r.Elements...)...), nil
		}
	case *Bits:
		if r, ok := right.(*Bits); ok {
			return l.Concat(r), nil
		}
	}
	return nil, fmt.Errorf("operator ++ not supported for %s and %s", TypeName(left), TypeName(right))
}

// Compare orders numbers, chars, strings, booleans, and lists/tuples lexicographically.
func Compare(a, b Object) (int, error) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			if ai, ok := a.(*Integer); ok {
				if bi, ok := b.(*Integer); ok {
					return cmpInt(ai.Value, bi.Value), nil
				}
			}
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			}
			return 0, nil
		}
	}
	switch av := a.(type) {
	case *Char:
		if bv, ok := b.(*Char); ok {
			return cmpInt(av.Value, bv.Value), nil
		}
	case *Boolean:
		if bv, ok := b.(*Boolean); ok {
			return cmpInt(boolInt(av.Value), boolInt(bv.Value)), nil
		}
	case *List:
		if bv, ok := b.(*List); ok {
			if IsStringList(av) && IsStringList(bv) {
				return strings.Compare(ListToString(av), ListToString(bv)), nil
			}
			return compareSlices(av.ToSlice(), bv.ToSlice())
		}
	case *Tuple:
		if bv, ok := b.(*Tuple); ok {
			return compareSlices(av.Elements, bv.Elements)
		}
	}
	return 0, fmt.Errorf("cannot compare %s with %s", TypeName(a), TypeName(b))
}

func compareSlices(a, b []Object) (int, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, err := Compare(a[i], b[i])
		if err != nil || c != 0 {
			return c, err
		}
	}
	return cmpInt(int64(len(a)), int64(len(b))), nil
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
