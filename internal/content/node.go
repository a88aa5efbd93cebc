// Package content models course content trees and city substitution.
package content

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Token is the placeholder replaced with a city's display name.
const Token = "{city}"

// Node is a content tree node. The set of implementations is closed:
// String, Seq, Map and Scalar.
type Node interface {
	node()
}

// String is a text leaf.
type String string

// Seq is an ordered sequence of nodes.
type Seq []Node

// Field is a single key/value entry of a Map.
type Field struct {
	Key   string
	Value Node
}

// Map is a keyed mapping. Field order is kept for stable rendering but
// carries no meaning.
type Map []Field

// Scalar is a non-text leaf: a number, a boolean or null.
type Scalar struct {
	Value any
}

func (String) node() {}
func (Seq) node()    {}
func (Map) node()    {}
func (Scalar) node() {}

// Get returns the value stored under key.
func (m Map) Get(key string) (Node, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present with a non-nil value.
func (m Map) Has(key string) bool {
	v, ok := m.Get(key)
	return ok && v != nil
}

// Keys returns the keys in stored order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, f := range m {
		keys = append(keys, f.Key)
	}
	return keys
}

// Lookup walks nested maps by key and returns the node at path.
func Lookup(n Node, path ...string) (Node, bool) {
	cur := n
	for _, key := range path {
		m, ok := cur.(Map)
		if !ok {
			return nil, false
		}
		next, ok := m.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Text returns the string at path, or "" when absent or not text.
// Scalars are formatted.
func Text(n Node, path ...string) string {
	v, ok := Lookup(n, path...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case String:
		return string(t)
	case Scalar:
		if t.Value == nil {
			return ""
		}
		return fmt.Sprint(t.Value)
	}
	return ""
}

// Items returns the sequence at path.
func Items(n Node, path ...string) Seq {
	v, ok := Lookup(n, path...)
	if !ok {
		return nil
	}
	s, _ := v.(Seq)
	return s
}

// Strings returns the text leaves of the sequence at path.
func Strings(n Node, path ...string) []string {
	var out []string
	for _, item := range Items(n, path...) {
		if s, ok := item.(String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// FromYAML converts a decoded YAML node into a content tree.
// A nil or empty document yields a nil Node.
func FromYAML(y *yaml.Node) (Node, error) {
	if y == nil || y.Kind == 0 {
		return nil, nil
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, nil
		}
		return FromYAML(y.Content[0])
	case yaml.AliasNode:
		return FromYAML(y.Alias)
	case yaml.SequenceNode:
		seq := make(Seq, 0, len(y.Content))
		for _, c := range y.Content {
			n, err := FromYAML(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, n)
		}
		return seq, nil
	case yaml.MappingNode:
		m := make(Map, 0, len(y.Content)/2)
		seen := make(map[string]bool, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			if seen[key] {
				return nil, fmt.Errorf("line %d: duplicate key %q", y.Content[i].Line, key)
			}
			seen[key] = true
			v, err := FromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = append(m, Field{Key: key, Value: v})
		}
		return m, nil
	case yaml.ScalarNode:
		return scalarFromYAML(y), nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", y.Line, y.Kind)
}

func scalarFromYAML(y *yaml.Node) Node {
	switch y.Tag {
	case "!!null":
		return Scalar{}
	case "!!bool":
		b, err := strconv.ParseBool(y.Value)
		if err == nil {
			return Scalar{Value: b}
		}
	case "!!int":
		i, err := strconv.ParseInt(y.Value, 0, 64)
		if err == nil {
			return Scalar{Value: i}
		}
	case "!!float":
		f, err := strconv.ParseFloat(y.Value, 64)
		if err == nil {
			return Scalar{Value: f}
		}
	}
	return String(y.Value)
}

// ToValue converts a tree into plain Go values suitable for encoding/json.
func ToValue(n Node) any {
	switch t := n.(type) {
	case String:
		return string(t)
	case Seq:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToValue(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for _, f := range t {
			out[f.Key] = ToValue(f.Value)
		}
		return out
	case Scalar:
		return t.Value
	}
	return nil
}
