package evaluator

import "sort"

// Environment holds the names bound for one combination. Each generator
// level encloses the environment of the level above it.
type Environment struct {
	store map[string]Object
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	if e == nil {
		return nil, false
	}
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// Lookup is Get with an error for unbound names.
func (e *Environment) Lookup(name string) (Object, error) {
	if obj, ok := e.Get(name); ok {
		return obj, nil
	}
	return nil, &UnboundError{Name: name}
}

func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Names returns every visible name, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	for cur := e; cur != nil; cur = cur.outer {
		for name := range cur.store {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
