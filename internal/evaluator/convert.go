package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/funvibe/comprex/internal/config"
)

// Digits returns the base-10 digits of n, most significant first.
// Digits of a negative number are negative: -12 -> [-1, -2].
func Digits(n int64, base int64) ([]Object, error) {
	if base < 2 {
		return nil, fmt.Errorf("digits: invalid base %d", base)
	}
	sign := int64(1)
	u := n
	if n < 0 {
		sign = -1
		if n == math.MinInt64 {
			return nil, fmt.Errorf("digits: %d out of range", n)
		}
		u = -n
	}
	if u == 0 {
		return []Object{&Integer{Value: 0}}, nil
	}
	var rev []int64
	for u > 0 {
		rev = append(rev, u%base)
		u /= base
	}
	out := make([]Object, len(rev))
	for i, d := range rev {
		out[len(rev)-1-i] = &Integer{Value: sign * d}
	}
	return out, nil
}

// Undigits is the inverse of Digits.
func Undigits(digits []Object, base int64) (*Integer, error) {
	if base < 2 {
		return nil, fmt.Errorf("undigits: invalid base %d", base)
	}
	n, b := new(big.Int), big.NewInt(base)
	for _, d := range digits {
		i, ok := d.(*Integer)
		if !ok {
			return nil, fmt.Errorf("undigits: expected Int digit, got %s", TypeName(d))
		}
		if i.Value >= base || i.Value <= -base {
			return nil, fmt.Errorf("undigits: digit %d out of range for base %d", i.Value, base)
		}
		n.Mul(n, b).Add(n, big.NewInt(i.Value))
	}
	if !n.IsInt64() {
		return nil, fmt.Errorf("undigits: %s out of range", n)
	}
	return &Integer{Value: n.Int64()}, nil
}

// ToList converts any iterable to a plain list. Strings become lists of chars.
func ToList(obj Object) (*List, error) {
	elements, err := Elements(obj)
	if err != nil {
		return nil, err
	}
	out := make([]Object, len(elements))
	copy(out, elements)
	return NewList(out), nil
}

// ToTuple converts any iterable to a tuple.
func ToTuple(obj Object) (*Tuple, error) {
	if t, ok := obj.(*Tuple); ok {
		return t, nil
	}
	elements, err := Elements(obj)
	if err != nil {
		return nil, err
	}
	out := make([]Object, len(elements))
	copy(out, elements)
	return NewTuple(out...), nil
}

// ToString renders a value as a string. Char lists are joined, everything else is inspected.
func ToString(obj Object) *List {
	switch o := obj.(type) {
	case *Char:
		return NewString(string(rune(o.Value)))
	case *List:
		if IsStringList(o) || o.Len() == 0 {
			return NewString(ListToString(o))
		}
	}
	return NewString(obj.Inspect())
}

// ToBits converts integers (unsigned binary, no leading zeros), binary
// strings and 0/1 lists to Bits.
func ToBits(obj Object) (*Bits, error) {
	switch o := obj.(type) {
	case *Bits:
		return o, nil
	case *Integer:
		if o.Value < 0 {
			return nil, fmt.Errorf("bits: negative integer %d", o.Value)
		}
		return BitsFromBinary(strconv.FormatInt(o.Value, 2))
	case *List:
		if IsStringList(o) {
			return BitsFromBinary(ListToString(o))
		}
		var sb strings.Builder
		for _, el := range o.ToSlice() {
			i, ok := el.(*Integer)
			if !ok || (i.Value != 0 && i.Value != 1) {
				return nil, fmt.Errorf("bits: expected 0 or 1, got %s", el.Inspect())
			}
			sb.WriteByte(byte('0' + i.Value))
		}
		return BitsFromBinary(sb.String())
	default:
		return nil, fmt.Errorf("bits: cannot convert %s", TypeName(obj))
	}
}

// ToInteger converts chars (code point), numeric strings, floats (truncated)
// and bits (unsigned) to an Integer.
func ToInteger(obj Object) (*Integer, error) {
	switch o := obj.(type) {
	case *Integer:
		return o, nil
	case *Char:
		return &Integer{Value: o.Value}, nil
	case *Float:
		return &Integer{Value: int64(o.Value)}, nil
	case *Boolean:
		if o.Value {
			return &Integer{Value: 1}, nil
		}
		return &Integer{Value: 0}, nil
	case *Bits:
		if o.Len() > 63 {
			return nil, fmt.Errorf("integer: %d bits do not fit", o.Len())
		}
		var n int64
		for i := 0; i < o.Len(); i++ {
			n = n<<1 | int64(o.Get(i))
		}
		return &Integer{Value: n}, nil
	case *List:
		if IsStringList(o) {
			n, err := strconv.ParseInt(strings.TrimSpace(ListToString(o)), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("integer: %w", err)
			}
			return &Integer{Value: n}, nil
		}
		return Undigits(o.ToSlice(), 10)
	default:
		return nil, fmt.Errorf("integer: cannot convert %s", TypeName(obj))
	}
}

// Convert converts obj to the named kind (see config.ConvertKinds).
func Convert(kind string, obj Object) (Object, error) {
	switch kind {
	case config.KindList:
		return ToList(obj)
	case config.KindTuple:
		return ToTuple(obj)
	case config.KindString:
		return ToString(obj), nil
	case config.KindChars:
		s, ok := obj.(*List)
		if !ok || !(IsStringList(s) || s.Len() == 0) {
			return nil, fmt.Errorf("chars: expected String, got %s", TypeName(obj))
		}
		return NewList(append([]Object(nil), s.ToSlice()...)), nil
	case config.KindDigits:
		i, err := ToInteger(obj)
		if err != nil {
			return nil, err
		}
		digits, err := Digits(i.Value, 10)
		if err != nil {
			return nil, err
		}
		return NewList(digits), nil
	case config.KindBits:
		return ToBits(obj)
	case config.KindInteger:
		return ToInteger(obj)
	default:
		return nil, fmt.Errorf("unknown conversion %q (want one of %s)", kind, strings.Join(config.ConvertKinds, ", "))
	}
}
