// Package object models a Kubernetes object as an immutable tree of
// tagged values (null, scalar, sequence, mapping). Mappings keep their
// fields in insertion order so a document parsed from YAML or JSON can
// be rendered back in the order the author wrote it.
//
// Values must be acyclic. Trees built by Parse and FromAny always are;
// callers that assemble values by hand are responsible for that.
package object

import (
	"encoding/json"
	"slices"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Field is a single key/value entry of a mapping.
type Field struct {
	Key   string
	Value Value
}

// Value is a node of an object tree. The zero Value is null.
//
// Scalars hold one of string, bool, int64 or float64.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	fields []Field
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindScalar, scalar: b} }

// Int returns an integer scalar.
func Int(i int64) Value { return Value{kind: KindScalar, scalar: i} }

// Float returns a floating point scalar.
func Float(f float64) Value { return Value{kind: KindScalar, scalar: f} }

// Sequence returns a sequence holding copies of items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: slices.Clone(items)}
}

// Mapping returns a mapping with the given fields in order. A repeated
// key keeps its first position and its last value, matching how YAML
// and JSON decoders resolve duplicates.
func Mapping(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := index[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return Value{kind: KindMapping, fields: out}
}

// F is shorthand for building a mapping Field.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Scalar returns the scalar held by v, or nil if v is not a scalar.
func (v Value) Scalar() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns a copy of the elements of a sequence.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return slices.Clone(v.items)
}

// Fields returns a copy of the fields of a mapping, in order.
func (v Value) Fields() []Field {
	if v.kind != KindMapping {
		return nil
	}
	return slices.Clone(v.fields)
}

// Len returns the number of elements of a sequence or fields of a
// mapping, and zero for anything else.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.fields)
	default:
		return 0
	}
}

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Lookup follows a path of mapping keys starting at v.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// String returns the textual form of v: "null" for null, the plain
// text of a scalar, and compact JSON for sequences and mappings.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindScalar:
		return scalarString(v.scalar)
	default:
		b, err := json.Marshal(v.ToAny())
		if err != nil {
			return v.kind.String()
		}
		return string(b)
	}
}

func scalarString(s any) string {
	switch t := s.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}

// ToAny converts v into plain Go values: nil, string, bool, int64,
// float64, []any and map[string]any. Mapping order is lost.
func (v Value) ToAny() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Key] = f.Value.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and other are the same tree. Mapping field
// order is significant.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		return v.scalar == other.scalar
	case KindSequence:
		return slices.EqualFunc(v.items, other.items, Value.Equal)
	case KindMapping:
		return slices.EqualFunc(v.fields, other.fields, func(a, b Field) bool {
			return a.Key == b.Key && a.Value.Equal(b.Value)
		})
	default:
		return false
	}
}
