package evaluator

import (
	"hash/fnv"
)

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	CHAR_OBJ    = "CHAR"
	NIL_OBJ     = "NIL"
	TUPLE_OBJ   = "TUPLE"
	LIST_OBJ    = "LIST"
	MAP_OBJ     = "MAP"   // Ordered hash map
	RANGE_OBJ   = "RANGE" // Inclusive integer or char range
	BITS_OBJ    = "BITS"  // Bit sequence
)

// Object is a runtime value flowing through generators, filters and bodies.
type Object interface {
	Type() ObjectType
	Inspect() string
	Hash() uint32
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// TypeName returns a user-facing name for the object's type.
func TypeName(obj Object) string {
	switch o := obj.(type) {
	case nil:
		return "nothing"
	case *List:
		if o.Len() > 0 && IsStringList(o) {
			return "String"
		}
		return "List"
	case *Integer:
		return "Int"
	case *Float:
		return "Float"
	case *Boolean:
		return "Bool"
	case *Char:
		return "Char"
	case *Nil:
		return "Nil"
	case *Tuple:
		return "Tuple"
	case *Map:
		return "Map"
	case *Range:
		return "Range"
	case *Bits:
		return "Bits"
	default:
		return string(obj.Type())
	}
}
