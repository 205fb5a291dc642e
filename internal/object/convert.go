package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"go.yaml.in/yaml/v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// ErrUnsupportedType is returned by FromAny for Go values that have no
// object representation (channels, funcs, structs...).
var ErrUnsupportedType = errors.New("unsupported value type")

// ErrMultipleDocuments is returned by Parse for input holding more than
// one YAML document.
var ErrMultipleDocuments = errors.New("expected a single document, found several")

// FromAny converts decoded Go values into a Value. Map keys are sorted
// because Go maps carry no order.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindSequence, items: items}, nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Value{kind: KindSequence, items: items}, nil
	case []map[string]any:
		items := make([]Value, len(t))
		for i, m := range t {
			v, err := FromAny(m)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindSequence, items: items}, nil
	case map[string]string:
		keys := sortedKeys(t)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = F(k, String(t[k]))
		}
		return Value{kind: KindMapping, fields: fields}, nil
	case map[string]any:
		keys := sortedKeys(t)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			fields[i] = F(k, v)
		}
		return Value{kind: KindMapping, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, in)
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FromUnstructured converts an unstructured Kubernetes object.
func FromUnstructured(u *unstructured.Unstructured) (Value, error) {
	if u == nil {
		return Null(), nil
	}
	return FromAny(u.Object)
}

// FromRuntimeObject converts a typed Kubernetes object (a corev1.Pod,
// for example) through the default unstructured converter.
func FromRuntimeObject(obj runtime.Object) (Value, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return Value{}, fmt.Errorf("convert %T to unstructured: %w", obj, err)
	}
	return FromAny(m)
}

// Parse decodes a single YAML (or JSON) document, keeping mapping keys
// in document order. An empty document parses to null. Input holding
// more than one document is rejected with ErrMultipleDocuments.
func Parse(data []byte) (Value, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), nil
		}
		return Value{}, fmt.Errorf("parse document: %w", err)
	}

	for {
		var next yaml.Node
		err := dec.Decode(&next)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Value{}, fmt.Errorf("parse document: %w", err)
		}
		if !emptyDocument(&next) {
			return Value{}, ErrMultipleDocuments
		}
	}
	return FromNode(&doc)
}

// emptyDocument reports whether n is a document without content, as
// left by a trailing "---".
func emptyDocument(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return true
	}
	c := n.Content[0]
	return c.Kind == yaml.ScalarNode && c.Tag == "!!null" && c.Value == ""
}

// FromNode converts a decoded YAML node tree.
func FromNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return Null(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, len(n.Content))
		for i, c := range n.Content {
			v, err := FromNode(c)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindSequence, items: items}, nil
	case yaml.MappingNode:
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := FromNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, F(k.Value, v))
		}
		return Mapping(fields...), nil
	case yaml.ScalarNode:
		return fromScalarNode(n)
	default:
		return Null(), nil
	}
}

func fromScalarNode(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return String(n.Value), nil
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}
