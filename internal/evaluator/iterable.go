package evaluator

// Elements extracts the elements of an iterable value in iteration order.
// Maps iterate as (key, value) tuples, Bits as 0/1 integers.
func Elements(obj Object) ([]Object, error) {
	switch o := obj.(type) {
	case *List:
		return o.ToSlice(), nil
	case *Tuple:
		return o.Elements, nil
	case *Map:
		return o.Pairs(), nil
	case *Range:
		return o.Elements(), nil
	case *Bits:
		items := make([]Object, o.Len())
		for i := range items {
			items[i] = &Integer{Value: int64(o.Get(i))}
		}
		return items, nil
	case nil:
		return nil, contractError("cannot iterate over nothing")
	default:
		return nil, contractError("cannot iterate over %s", TypeName(obj))
	}
}
