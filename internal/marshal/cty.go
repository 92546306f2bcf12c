package marshal

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/funvibe/comprex/internal/evaluator"
)

// FromCty converts an HCL value. Whole numbers become Integers, other
// numbers Floats; objects and maps become maps with string keys.
func FromCty(v cty.Value) (evaluator.Object, error) {
	if v.IsNull() {
		return evaluator.NIL, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return evaluator.NewString(v.AsString()), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return &evaluator.Integer{Value: i}, nil
			}
		}
		f, _ := bf.Float64()
		return &evaluator.Float{Value: f}, nil

	case ty == cty.Bool:
		return &evaluator.Boolean{Value: v.True()}, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var elements []evaluator.Object
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			obj, err := FromCty(val)
			if err != nil {
				return nil, err
			}
			elements = append(elements, obj)
		}
		return evaluator.NewList(elements), nil

	case ty.IsObjectType() || ty.IsMapType():
		m := evaluator.NewMap()
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			obj, err := FromCty(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m = m.Put(evaluator.NewString(key.AsString()), obj)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported HCL type %s", ty.FriendlyName())
	}
}
