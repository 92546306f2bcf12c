package evaluator

import (
	"fmt"
	"strings"
)

// Wildcard is the name that matches without binding.
const Wildcard = "_"

// Binding is one name bound by a successful match.
type Binding struct {
	Name  string
	Value Object
}

// Pattern destructures a source element. The set of implementations is closed:
// BindAll, BindTuple and BindMappingKeys.
type Pattern interface {
	// TryMatch returns the bindings for value, or false if value has the wrong shape.
	TryMatch(value Object) ([]Binding, bool)
	// Names lists the names the pattern binds, in order.
	Names() []string
	String() string
	pattern()
}

// BindAll binds the whole element to a name.
type BindAll struct {
	Name string
}

func (p *BindAll) TryMatch(value Object) ([]Binding, bool) {
	if p.Name == Wildcard {
		return nil, true
	}
	return []Binding{{Name: p.Name, Value: value}}, true
}

func (p *BindAll) Names() []string {
	if p.Name == Wildcard {
		return nil
	}
	return []string{p.Name}
}

func (p *BindAll) String() string { return p.Name }
func (p *BindAll) pattern()       {}

// BindTuple matches tuples of exactly len(Elements) elements and binds them positionally.
type BindTuple struct {
	Elements []string
}

func (p *BindTuple) TryMatch(value Object) ([]Binding, bool) {
	tuple, ok := value.(*Tuple)
	if !ok || len(tuple.Elements) != len(p.Elements) {
		return nil, false
	}
	var out []Binding
	for i, name := range p.Elements {
		if name == Wildcard {
			continue
		}
		out = append(out, Binding{Name: name, Value: tuple.Elements[i]})
	}
	return out, true
}

func (p *BindTuple) Names() []string {
	var names []string
	for _, name := range p.Elements {
		if name != Wildcard {
			names = append(names, name)
		}
	}
	return names
}

func (p *BindTuple) String() string { return "(" + strings.Join(p.Elements, ", ") + ")" }
func (p *BindTuple) pattern()       {}

// BindMappingKeys matches maps holding every key in Keys (string keys) and binds
// each value to the name at the same index in As. An empty As entry binds the key's own name.
type BindMappingKeys struct {
	Keys []string
	As   []string
}

func (p *BindMappingKeys) alias(i int) string {
	if i < len(p.As) && p.As[i] != "" {
		return p.As[i]
	}
	return p.Keys[i]
}

func (p *BindMappingKeys) TryMatch(value Object) ([]Binding, bool) {
	m, ok := value.(*Map)
	if !ok {
		return nil, false
	}
	out := make([]Binding, 0, len(p.Keys))
	for i, key := range p.Keys {
		v, found := m.GetString(key)
		if !found {
			return nil, false
		}
		if name := p.alias(i); name != Wildcard {
			out = append(out, Binding{Name: name, Value: v})
		}
	}
	return out, true
}

func (p *BindMappingKeys) Names() []string {
	var names []string
	for i := range p.Keys {
		if name := p.alias(i); name != Wildcard {
			names = append(names, name)
		}
	}
	return names
}

func (p *BindMappingKeys) String() string {
	parts := make([]string, len(p.Keys))
	for i, key := range p.Keys {
		if alias := p.alias(i); alias != key {
			parts[i] = fmt.Sprintf("%s: %s", key, alias)
		} else {
			parts[i] = key
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (p *BindMappingKeys) pattern() {}
