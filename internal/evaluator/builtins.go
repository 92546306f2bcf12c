package evaluator

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/funvibe/comprex/internal/config"
)

// BuiltinFunction is the Go implementation of a builtin.
type BuiltinFunction func(args ...Object) (Object, error)

// Builtin is a named function callable from expressions. MaxArgs < 0 means variadic.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      BuiltinFunction
}

// Call checks the argument count and invokes the builtin.
func (b *Builtin) Call(args []Object) (Object, error) {
	if len(args) < b.MinArgs || (b.MaxArgs >= 0 && len(args) > b.MaxArgs) {
		return nil, fmt.Errorf("%s: %s, got %d", b.Name, b.arity(), len(args))
	}
	out, err := b.Fn(args...)
	if err != nil {
		if strings.HasPrefix(err.Error(), b.Name+":") {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", b.Name, err)
	}
	return out, nil
}

func (b *Builtin) arity() string {
	switch {
	case b.MaxArgs < 0:
		return fmt.Sprintf("expected at least %d arguments", b.MinArgs)
	case b.MinArgs == b.MaxArgs:
		return fmt.Sprintf("expected %d arguments", b.MinArgs)
	default:
		return fmt.Sprintf("expected %d to %d arguments", b.MinArgs, b.MaxArgs)
	}
}

// Builtins maps names to builtin functions.
var Builtins map[string]*Builtin

func init() {
	Builtins = make(map[string]*Builtin)
	for _, b := range []*Builtin{
		{Name: config.LenFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinLen},
		{Name: config.DigitsFuncName, MinArgs: 1, MaxArgs: 2, Fn: builtinDigits},
		{Name: config.UndigitsFuncName, MinArgs: 1, MaxArgs: 2, Fn: builtinUndigits},
		{Name: config.CharsFuncName, MinArgs: 1, MaxArgs: 1, Fn: convertBuiltin(config.KindChars)},
		{Name: config.StringFuncName, MinArgs: 1, MaxArgs: 1, Fn: convertBuiltin(config.KindString)},
		{Name: config.IntegerFuncName, MinArgs: 1, MaxArgs: 1, Fn: convertBuiltin(config.KindInteger)},
		{Name: config.BitsFuncName, MinArgs: 1, MaxArgs: 1, Fn: convertBuiltin(config.KindBits)},
		{Name: config.TupleFuncName, MinArgs: 0, MaxArgs: -1, Fn: builtinTuple},
		{Name: config.ListFuncName, MinArgs: 1, MaxArgs: 1, Fn: convertBuiltin(config.KindList)},
		{Name: config.KeysFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinKeys},
		{Name: config.ValuesFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinValues},
		{Name: config.GetFuncName, MinArgs: 2, MaxArgs: 3, Fn: builtinGet},
		{Name: config.HasFuncName, MinArgs: 2, MaxArgs: 2, Fn: builtinHas},
		{Name: config.UpperFuncName, MinArgs: 1, MaxArgs: 1, Fn: caseBuiltin(unicode.ToUpper)},
		{Name: config.LowerFuncName, MinArgs: 1, MaxArgs: 1, Fn: caseBuiltin(unicode.ToLower)},
		{Name: config.AbsFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinAbs},
		{Name: config.MinFuncName, MinArgs: 1, MaxArgs: -1, Fn: extremeBuiltin(-1)},
		{Name: config.MaxFuncName, MinArgs: 1, MaxArgs: -1, Fn: extremeBuiltin(1)},
		{Name: config.SumFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinSum},
		{Name: config.ReverseFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinReverse},
		{Name: config.SortFuncName, MinArgs: 1, MaxArgs: 1, Fn: builtinSort},
		{Name: config.RangeFuncName, MinArgs: 2, MaxArgs: 3, Fn: builtinRange},
	} {
		Builtins[b.Name] = b
	}
}

func builtinLen(args ...Object) (Object, error) {
	switch o := args[0].(type) {
	case *Map:
		return &Integer{Value: int64(o.Len())}, nil
	case *Bits:
		return &Integer{Value: int64(o.Len())}, nil
	}
	elements, err := Elements(args[0])
	if err != nil {
		return nil, err
	}
	return &Integer{Value: int64(len(elements))}, nil
}

func baseArg(args []Object) (int64, error) {
	if len(args) < 2 {
		return 10, nil
	}
	b, ok := args[1].(*Integer)
	if !ok {
		return 0, fmt.Errorf("base must be Int, got %s", TypeName(args[1]))
	}
	return b.Value, nil
}

func builtinDigits(args ...Object) (Object, error) {
	n, ok := args[0].(*Integer)
	if !ok {
		return nil, fmt.Errorf("expected Int, got %s", TypeName(args[0]))
	}
	base, err := baseArg(args)
	if err != nil {
		return nil, err
	}
	digits, err := Digits(n.Value, base)
	if err != nil {
		return nil, err
	}
	return NewList(digits), nil
}

func builtinUndigits(args ...Object) (Object, error) {
	elements, err := Elements(args[0])
	if err != nil {
		return nil, err
	}
	base, err := baseArg(args)
	if err != nil {
		return nil, err
	}
	return Undigits(elements, base)
}

func convertBuiltin(kind string) BuiltinFunction {
	return func(args ...Object) (Object, error) {
		return Convert(kind, args[0])
	}
}

func builtinTuple(args ...Object) (Object, error) {
	if len(args) == 1 {
		if _, err := Elements(args[0]); err == nil {
			return ToTuple(args[0])
		}
	}
	return NewTuple(append([]Object(nil), args...)...), nil
}

func mapArg(obj Object) (*Map, error) {
	m, ok := obj.(*Map)
	if !ok {
		return nil, fmt.Errorf("expected Map, got %s", TypeName(obj))
	}
	return m, nil
}

func builtinKeys(args ...Object) (Object, error) {
	m, err := mapArg(args[0])
	if err != nil {
		return nil, err
	}
	return m.Keys(), nil
}

func builtinValues(args ...Object) (Object, error) {
	m, err := mapArg(args[0])
	if err != nil {
		return nil, err
	}
	return m.Values(), nil
}

// get(container, key[, default])
func builtinGet(args ...Object) (Object, error) {
	val, err := Index(args[0], args[1])
	if err != nil {
		if len(args) == 3 {
			return args[2], nil
		}
		return nil, err
	}
	return val, nil
}

func builtinHas(args ...Object) (Object, error) {
	switch c := args[0].(type) {
	case *Map:
		_, ok := c.Get(args[1])
		return nativeBool(ok), nil
	default:
		elements, err := Elements(args[0])
		if err != nil {
			return nil, err
		}
		for _, el := range elements {
			if ObjectsEqual(el, args[1]) {
				return TRUE, nil
			}
		}
		return FALSE, nil
	}
}

func caseBuiltin(fn func(rune) rune) BuiltinFunction {
	return func(args ...Object) (Object, error) {
		switch o := args[0].(type) {
		case *Char:
			return &Char{Value: int64(fn(rune(o.Value)))}, nil
		case *List:
			if o.Len() == 0 || IsStringList(o) {
				return NewString(strings.Map(fn, ListToString(o))), nil
			}
		}
		return nil, fmt.Errorf("expected Char or String, got %s", TypeName(args[0]))
	}
}

func builtinAbs(args ...Object) (Object, error) {
	switch o := args[0].(type) {
	case *Integer:
		if o.Value < 0 {
			return &Integer{Value: -o.Value}, nil
		}
		return o, nil
	case *Float:
		if o.Value < 0 {
			return &Float{Value: -o.Value}, nil
		}
		return o, nil
	}
	return nil, fmt.Errorf("expected a number, got %s", TypeName(args[0]))
}

// extremeBuiltin returns min (sign -1) or max (sign 1). A single iterable
// argument is searched; several arguments are compared directly.
func extremeBuiltin(sign int) BuiltinFunction {
	return func(args ...Object) (Object, error) {
		candidates := args
		if len(args) == 1 {
			elements, err := Elements(args[0])
			if err != nil {
				return nil, err
			}
			candidates = elements
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("empty sequence")
		}
		best := candidates[0]
		for _, c := range candidates[1:] {
			cmp, err := Compare(c, best)
			if err != nil {
				return nil, err
			}
			if cmp*sign > 0 {
				best = c
			}
		}
		return best, nil
	}
}

func builtinSum(args ...Object) (Object, error) {
	elements, err := Elements(args[0])
	if err != nil {
		return nil, err
	}
	var total Object = &Integer{Value: 0}
	for _, el := range elements {
		if total, err = arithmetic("+", total, el); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func builtinReverse(args ...Object) (Object, error) {
	elements, err := Elements(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]Object, len(elements))
	for i, el := range elements {
		out[len(elements)-1-i] = el
	}
	if _, ok := args[0].(*Tuple); ok {
		return NewTuple(out...), nil
	}
	return sameKindList(args[0], out), nil
}

func builtinSort(args ...Object) (Object, error) {
	elements, err := Elements(args[0])
	if err != nil {
		return nil, err
	}
	out := append([]Object(nil), elements...)
	var cmpErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := Compare(out[i], out[j])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return sameKindList(args[0], out), nil
}

// sameKindList keeps strings as strings.
func sameKindList(orig Object, elements []Object) *List {
	l := NewList(elements)
	if o, ok := orig.(*List); ok && IsStringList(o) {
		l.ElementType = RUNTIME_TYPE_CHAR
	}
	return l
}

// range(start, end[, step]) is inclusive, like start..end.
func builtinRange(args ...Object) (Object, error) {
	var step Object = &Integer{Value: 1}
	if len(args) == 3 {
		step = args[2]
	}
	return makeRange(args[0], args[1], step)
}
