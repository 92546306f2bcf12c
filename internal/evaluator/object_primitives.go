package evaluator

import (
	"math"
	"strconv"
)

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 0
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NIL   = &Nil{}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Hash() uint32 {
	return uint32(i.Value ^ (i.Value >> 32))
}

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if !math.IsInf(f.Value, 0) && !math.IsNaN(f.Value) && isIntegral(s) {
		s += ".0"
	}
	return s
}
// Hash agrees with ObjectsEqual: 0.0 and -0.0 hash alike.
func (f *Float) Hash() uint32 {
	if f.Value == 0 {
		return 0
	}
	bits := math.Float64bits(f.Value)
	return uint32(bits ^ (bits >> 32))
}

func isIntegral(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// Nil is the absent value.
type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) Hash() uint32     { return 0 }

// Char represents a single Unicode code point.
type Char struct {
	Value int64
}

func (c *Char) Type() ObjectType { return CHAR_OBJ }
func (c *Char) Inspect() string  { return strconv.QuoteRune(rune(c.Value)) }
func (c *Char) Hash() uint32     { return uint32(c.Value) }
