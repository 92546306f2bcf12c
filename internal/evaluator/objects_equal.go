package evaluator

// ObjectsEqual performs a deep equality check between two values.
func ObjectsEqual(a, b Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type() != b.Type() {
		return false
	}

	switch aVal := a.(type) {
	case *Integer:
		return aVal.Value == b.(*Integer).Value
	case *Float:
		return aVal.Value == b.(*Float).Value
	case *Boolean:
		return aVal.Value == b.(*Boolean).Value
	case *Char:
		return aVal.Value == b.(*Char).Value
	case *Nil:
		return true
	case *List:
		bVal := b.(*List)
		if aVal.Len() != bVal.Len() {
			return false
		}
		for i := range aVal.elements {
			if !ObjectsEqual(aVal.elements[i], bVal.elements[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bVal := b.(*Tuple)
		if len(aVal.Elements) != len(bVal.Elements) {
			return false
		}
		for i := range aVal.Elements {
			if !ObjectsEqual(aVal.Elements[i], bVal.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		bVal := b.(*Map)
		if aVal.Len() != bVal.Len() {
			return false
		}
		// Key order is not significant
		for _, item := range aVal.entries {
			v2, ok := bVal.Get(item.Key)
			if !ok || !ObjectsEqual(item.Value, v2) {
				return false
			}
		}
		return true
	case *Range:
		bVal := b.(*Range)
		return *aVal == *bVal
	case *Bits:
		bVal := b.(*Bits)
		if aVal.length != bVal.length {
			return false
		}
		for i := 0; i < aVal.length; i++ {
			if aVal.Get(i) != bVal.Get(i) {
				return false
			}
		}
		return true
	}
	return false
}
