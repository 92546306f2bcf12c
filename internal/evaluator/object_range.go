package evaluator

import "fmt"

// Range is an inclusive stepped sequence of integers or chars.
type Range struct {
	Start  int64
	End    int64
	Step   int64
	IsChar bool
}

func (r *Range) Type() ObjectType { return RANGE_OBJ }
func (r *Range) Inspect() string {
	s, e := r.bound(r.Start), r.bound(r.End)
	if r.Step != 1 {
		return fmt.Sprintf("%s..%s by %d", s.Inspect(), e.Inspect(), r.Step)
	}
	return s.Inspect() + ".." + e.Inspect()
}
func (r *Range) Hash() uint32 {
	return uint32(r.Start*31+r.End) ^ uint32(r.Step)
}

func (r *Range) bound(v int64) Object {
	if r.IsChar {
		return &Char{Value: v}
	}
	return &Integer{Value: v}
}

// Elements materializes the range. A zero step yields nothing.
func (r *Range) Elements() []Object {
	var items []Object
	if r.Step == 0 {
		return items
	}
	if (r.Step > 0 && r.Start > r.End) || (r.Step < 0 && r.Start < r.End) {
		return items
	}
	for cur := r.Start; ; cur += r.Step {
		items = append(items, r.bound(cur))
		// the distance left to End, unsigned so it cannot overflow
		if r.Step > 0 && uint64(r.End-cur) < uint64(r.Step) {
			break
		}
		if r.Step < 0 && uint64(cur-r.End) < uint64(-r.Step) {
			break
		}
	}
	return items
}
