// Package marshal converts between Go values and evaluator values.
package marshal

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/funvibe/comprex/internal/evaluator"
)

// Marshaller handles conversion between Go and evaluator values.
type Marshaller struct {
	// TagName names the struct tag used for map keys. Defaults to "comprex".
	TagName string
}

func NewMarshaller() *Marshaller {
	return &Marshaller{TagName: "comprex"}
}

var objectType = reflect.TypeOf((*evaluator.Object)(nil)).Elem()

// ToValue converts a Go value to an evaluator Object.
// Structs become maps with string keys; Go maps are ordered by key.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NIL, nil
	}

	// Check if already an Object
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}

	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return evaluator.NIL, nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &evaluator.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return evaluator.NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return evaluator.NewList(nil), nil
		}
		return m.sliceToList(v)
	case reflect.Map:
		return m.mapToMap(v)
	case reflect.Struct:
		return m.structToMap(v)
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.NIL, nil
		}
		return m.ToValue(v.Elem().Interface())
	default:
		return nil, fmt.Errorf("unsupported Go type %s", v.Type())
	}
}

func (m *Marshaller) sliceToList(v reflect.Value) (*evaluator.List, error) {
	elements := make([]evaluator.Object, v.Len())
	for i := 0; i < v.Len(); i++ {
		val, err := m.ToValue(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements[i] = val
	}
	return evaluator.NewList(elements), nil
}

func (m *Marshaller) mapToMap(v reflect.Value) (*evaluator.Map, error) {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	result := evaluator.NewMap()
	for _, k := range keys {
		key, err := m.ToValue(k.Interface())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := m.ToValue(v.MapIndex(k).Interface())
		if err != nil {
			return nil, fmt.Errorf("map value %v: %w", k.Interface(), err)
		}
		result = result.Put(key, val)
	}
	return result, nil
}

func (m *Marshaller) structToMap(v reflect.Value) (*evaluator.Map, error) {
	result := evaluator.NewMap()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // Skip unexported fields
			continue
		}
		name, omitEmpty, skip := m.fieldName(field)
		if skip {
			continue
		}
		fv := v.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		val, err := m.ToValue(fv.Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		result = result.Put(evaluator.NewString(name), val)
	}
	return result, nil
}

func (m *Marshaller) fieldName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tagName := m.TagName
	if tagName == "" {
		tagName = "comprex"
	}
	tag := field.Tag.Get(tagName)
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// FromValue converts an evaluator Object to a Go value.
// targetType is optional; if provided, tries to convert to that type.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}

	// If target type is evaluator.Object, return as is
	if targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Integer:
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Int:
				return int(o.Value), nil
			case reflect.Int64:
				return o.Value, nil
			case reflect.Float64:
				return float64(o.Value), nil
			}
		}
		return int(o.Value), nil // Default to int
	case *evaluator.Float:
		return o.Value, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.Char:
		if targetType != nil && targetType.Kind() == reflect.String {
			return string(rune(o.Value)), nil
		}
		return rune(o.Value), nil
	case *evaluator.List:
		if evaluator.IsStringList(o) {
			return evaluator.ListToString(o), nil
		}
		return m.listToSlice(o.ToSlice(), targetType)
	case *evaluator.Tuple:
		return m.listToSlice(o.Elements, targetType)
	case *evaluator.Range:
		return m.listToSlice(o.Elements(), targetType)
	case *evaluator.Bits:
		return o.Binary(), nil
	case *evaluator.Map:
		return m.mapToGoMap(o, targetType)
	case *evaluator.Nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", o.Type())
	}
}

func (m *Marshaller) listToSlice(els []evaluator.Object, targetType reflect.Type) (interface{}, error) {
	// If targetType is nil, default to []interface{}
	elemType := reflect.TypeOf((*interface{})(nil)).Elem()
	if targetType != nil && targetType.Kind() == reflect.Slice {
		elemType = targetType.Elem()
	}

	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(els))
	for _, el := range els {
		val, err := m.FromValue(el, elemType)
		if err != nil {
			return nil, err
		}
		rv, err := assignable(val, elemType)
		if err != nil {
			return nil, err
		}
		slice = reflect.Append(slice, rv)
	}
	return slice.Interface(), nil
}

func assignable(val interface{}, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(t):
		return rv, nil
	case rv.Type().ConvertibleTo(t):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", rv.Type(), t)
}

// mapToGoMap returns map[string]interface{} when every key is a string,
// otherwise map[interface{}]interface{}, unless targetType names a map type.
func (m *Marshaller) mapToGoMap(fm *evaluator.Map, targetType reflect.Type) (interface{}, error) {
	items := fm.Items()

	if targetType == nil || targetType.Kind() != reflect.Map {
		targetType = reflect.TypeOf(map[string]interface{}{})
		for _, item := range items {
			if l, ok := item.Key.(*evaluator.List); !ok || !evaluator.IsStringList(l) {
				targetType = reflect.TypeOf(map[interface{}]interface{}{})
				break
			}
		}
	}

	result := reflect.MakeMapWithSize(targetType, len(items))
	keyType, valType := targetType.Key(), targetType.Elem()
	for _, item := range items {
		key, err := m.FromValue(item.Key, keyType)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := m.FromValue(item.Value, valType)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		if key != nil && !reflect.TypeOf(key).Comparable() {
			return nil, fmt.Errorf("map key %s is not usable as a Go map key", item.Key.Inspect())
		}
		kv, err := assignable(key, keyType)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		vv, err := assignable(val, valType)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		result.SetMapIndex(kv, vv)
	}
	return result.Interface(), nil
}
