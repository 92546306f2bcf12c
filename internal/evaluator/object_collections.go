package evaluator

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Tuple represents a heterogeneous immutable collection of objects.
type Tuple struct {
	Elements []Object
}

func NewTuple(elements ...Object) *Tuple {
	return &Tuple{Elements: elements}
}

func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }
func (t *Tuple) Inspect() string {
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		parts[i] = el.Inspect()
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) Hash() uint32 {
	h := uint32(1)
	for _, el := range t.Elements {
		h = 31*h + el.Hash()
	}
	return h
}

// List is an immutable ordered sequence. Strings are lists of Char.
type List struct {
	elements    []Object
	ElementType string // Optional: "Char" marks a string, including the empty one
}

// NewList creates a new List from a slice of Objects. The slice is not copied.
func NewList(elements []Object) *List {
	return &List{elements: elements}
}

// NewString creates a List of Char from a Go string.
func NewString(s string) *List {
	runes := []rune(s)
	chars := make([]Object, len(runes))
	for i, r := range runes {
		chars[i] = &Char{Value: int64(r)}
	}
	return &List{elements: chars, ElementType: RUNTIME_TYPE_CHAR}
}

const RUNTIME_TYPE_CHAR = "Char"

func (l *List) Type() ObjectType { return LIST_OBJ }

// Len returns the number of elements
func (l *List) Len() int {
	return len(l.elements)
}

// Get returns the element at index i, or nil if out of bounds
func (l *List) Get(i int) Object {
	if i < 0 || i >= len(l.elements) {
		return nil
	}
	return l.elements[i]
}

// ToSlice returns the elements. Callers must not mutate the result.
func (l *List) ToSlice() []Object {
	return l.elements
}

// Append returns a new List with val added at the end.
func (l *List) Append(val Object) *List {
	out := make([]Object, len(l.elements), len(l.elements)+1)
	copy(out, l.elements)
	return &List{elements: append(out, val), ElementType: l.elementTypeAfter(val)}
}

// Concat returns a new List with other appended.
func (l *List) Concat(other *List) *List {
	out := make([]Object, 0, len(l.elements)+len(other.elements))
	out = append(out, l.elements...)
	out = append(out, other.elements...)
	et := ""
	if l.ElementType == other.ElementType {
		et = l.ElementType
	}
	return &List{elements: out, ElementType: et}
}

func (l *List) elementTypeAfter(val Object) string {
	if l.ElementType == RUNTIME_TYPE_CHAR {
		if _, ok := val.(*Char); ok {
			return RUNTIME_TYPE_CHAR
		}
	}
	return ""
}

func (l *List) Inspect() string {
	if IsStringList(l) {
		return strconv.Quote(ListToString(l))
	}
	parts := make([]string, len(l.elements))
	for i, el := range l.elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Hash() uint32 {
	h := uint32(7)
	for _, el := range l.elements {
		h = 31*h + el.Hash()
	}
	return h
}

// IsStringList reports whether the list holds only Char values.
func IsStringList(l *List) bool {
	if l.ElementType == RUNTIME_TYPE_CHAR {
		return true
	}
	if len(l.elements) == 0 {
		return false
	}
	for _, el := range l.elements {
		if _, ok := el.(*Char); !ok {
			return false
		}
	}
	return true
}

// ListToString converts a list of Char back to a Go string.
func ListToString(l *List) string {
	var sb strings.Builder
	for _, el := range l.elements {
		if c, ok := el.(*Char); ok {
			sb.WriteRune(rune(c.Value))
		}
	}
	return sb.String()
}

// MapEntry is a single key-value pair of a Map.
type MapEntry struct {
	Key   Object
	Value Object
}

// Map is an insertion-ordered hash map keyed by full value equality.
// Put returns a new Map; the receiver is never modified.
type Map struct {
	entries []MapEntry
	index   map[uint32][]int // hash -> positions in entries
}

// NewMap creates a new empty Map
func NewMap() *Map {
	return &Map{index: make(map[uint32][]int)}
}

func (m *Map) Type() ObjectType { return MAP_OBJ }

// Len returns the number of entries
func (m *Map) Len() int {
	return len(m.entries)
}

func (m *Map) find(key Object) int {
	for _, pos := range m.index[key.Hash()] {
		if ObjectsEqual(m.entries[pos].Key, key) {
			return pos
		}
	}
	return -1
}

// Get returns value for key and whether it exists
func (m *Map) Get(key Object) (Object, bool) {
	if pos := m.find(key); pos >= 0 {
		return m.entries[pos].Value, true
	}
	return nil, false
}

// GetString looks up a string key.
func (m *Map) GetString(key string) (Object, bool) {
	return m.Get(NewString(key))
}

// Put returns a new Map with the key-value pair added or replaced.
// A replaced key keeps its original position.
func (m *Map) Put(key, value Object) *Map {
	c := m.clone()
	c.put(key, value)
	return c
}

// put mutates the map in place. Only valid on maps not yet shared.
func (m *Map) put(key, value Object) {
	if pos := m.find(key); pos >= 0 {
		m.entries[pos].Value = value
		return
	}
	h := key.Hash()
	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

func (m *Map) clone() *Map {
	c := &Map{
		entries: make([]MapEntry, len(m.entries)),
		index:   make(map[uint32][]int, len(m.index)),
	}
	copy(c.entries, m.entries)
	for h, positions := range m.index {
		c.index[h] = append([]int(nil), positions...)
	}
	return c
}

// Items returns entries in insertion order. Callers must not mutate the result.
func (m *Map) Items() []MapEntry {
	return m.entries
}

// Keys returns all keys as a List
func (m *Map) Keys() *List {
	keys := make([]Object, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return NewList(keys)
}

// Values returns all values as a List
func (m *Map) Values() *List {
	values := make([]Object, len(m.entries))
	for i, e := range m.entries {
		values[i] = e.Value
	}
	return NewList(values)
}

// Pairs returns all entries as (key, value) tuples.
func (m *Map) Pairs() []Object {
	pairs := make([]Object, len(m.entries))
	for i, e := range m.entries {
		pairs[i] = NewTuple(e.Key, e.Value)
	}
	return pairs
}

func (m *Map) Inspect() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.Key.Inspect() + ": " + e.Value.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Hash is independent of insertion order.
func (m *Map) Hash() uint32 {
	var h uint32
	for _, e := range m.entries {
		h += 31*e.Key.Hash() + e.Value.Hash()
	}
	return h
}

// Bits represents an immutable sequence of bits.
// Unlike a byte slice, Bits can have any length (not necessarily multiple of 8).
type Bits struct {
	data   []byte // Stores bits packed in bytes, MSB first
	length int    // Number of valid bits (may be less than len(data)*8)
}

// BitsFromBinary creates Bits from a binary string like "10101010"
func BitsFromBinary(s string) (*Bits, error) {
	for _, c := range s {
		if c != '0' && c != '1' {
			return nil, fmt.Errorf("invalid binary character: %c", c)
		}
	}
	b := &Bits{data: make([]byte, (len(s)+7)/8), length: len(s)}
	for i, c := range s {
		if c == '1' {
			b.set(i)
		}
	}
	return b, nil
}

// BitsFromBytes creates Bits covering every bit of data.
func BitsFromBytes(data []byte) *Bits {
	copied := make([]byte, len(data))
	copy(copied, data)
	return &Bits{data: copied, length: len(data) * 8}
}

func (b *Bits) set(i int) {
	b.data[i/8] |= 1 << (7 - i%8)
}

func (b *Bits) Type() ObjectType { return BITS_OBJ }

// Len returns the number of bits
func (b *Bits) Len() int {
	return b.length
}

// Get returns the bit at index i (0 or 1), or -1 if out of bounds
func (b *Bits) Get(i int) int {
	if i < 0 || i >= b.length {
		return -1
	}
	if b.data[i/8]&(1<<(7-i%8)) != 0 {
		return 1
	}
	return 0
}

// Concat returns a new Bits with other appended
func (b *Bits) Concat(other *Bits) *Bits {
	out := &Bits{data: make([]byte, (b.length+other.length+7)/8), length: b.length + other.length}
	for i := 0; i < b.length; i++ {
		if b.Get(i) == 1 {
			out.set(i)
		}
	}
	for i := 0; i < other.length; i++ {
		if other.Get(i) == 1 {
			out.set(b.length + i)
		}
	}
	return out
}

// Binary returns the binary string representation
func (b *Bits) Binary() string {
	var sb strings.Builder
	for i := 0; i < b.length; i++ {
		if b.Get(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (b *Bits) Inspect() string { return "#b\"" + b.Binary() + "\"" }

func (b *Bits) Hash() uint32 {
	h := fnv.New32a()
	h.Write(b.data)
	// Mix in length to distinguish 00 (2 bits) from 000 (3 bits) if packed in same byte
	return h.Sum32() ^ uint32(b.length)
}
