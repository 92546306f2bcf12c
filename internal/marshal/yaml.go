package marshal

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/comprex/internal/evaluator"
)

// FromYAML converts a decoded YAML node, keeping mapping key order.
func FromYAML(node *yaml.Node) (evaluator.Object, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return evaluator.NIL, nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.SequenceNode:
		elements := make([]evaluator.Object, 0, len(node.Content))
		for _, child := range node.Content {
			obj, err := FromYAML(child)
			if err != nil {
				return nil, err
			}
			elements = append(elements, obj)
		}
		return evaluator.NewList(elements), nil
	case yaml.MappingNode:
		m := evaluator.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := FromYAML(node.Content[i])
			if err != nil {
				return nil, err
			}
			val, err := FromYAML(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", node.Content[i+1].Line, err)
			}
			m = m.Put(key, val)
		}
		return m, nil
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
}

func scalarFromYAML(node *yaml.Node) (evaluator.Object, error) {
	switch node.ShortTag() {
	case "!!null":
		return evaluator.NIL, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return &evaluator.Boolean{Value: b}, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, err
		}
		return &evaluator.Integer{Value: i}, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return &evaluator.Float{Value: f}, nil
	default:
		return evaluator.NewString(node.Value), nil
	}
}

// ToYAML renders a value as a YAML node. Map order is kept; tuples use flow style.
func ToYAML(obj evaluator.Object) *yaml.Node {
	switch o := obj.(type) {
	case nil, *evaluator.Nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case *evaluator.Integer:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(o.Value, 10)}
	case *evaluator.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(o.Value, 'g', -1, 64)}
	case *evaluator.Boolean:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(o.Value)}
	case *evaluator.Char:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(rune(o.Value))}
	case *evaluator.List:
		if evaluator.IsStringList(o) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: evaluator.ListToString(o)}
		}
		return sequenceNode(o.ToSlice(), 0)
	case *evaluator.Tuple:
		return sequenceNode(o.Elements, yaml.FlowStyle)
	case *evaluator.Range:
		return sequenceNode(o.Elements(), yaml.FlowStyle)
	case *evaluator.Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, item := range o.Items() {
			key := ToYAML(item.Key)
			if key.Kind != yaml.ScalarNode {
				key = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item.Key.Inspect()}
			}
			node.Content = append(node.Content, key, ToYAML(item.Value))
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: obj.Inspect()}
	}
}

func sequenceNode(elements []evaluator.Object, style yaml.Style) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: style}
	for _, el := range elements {
		node.Content = append(node.Content, ToYAML(el))
	}
	return node
}
