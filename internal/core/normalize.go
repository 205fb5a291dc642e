package core

import "github.com/azhar-beg/backstage/internal/object"

// Normalize returns a copy of v without the nodes whose string form is
// "null" or "undefined": null values and the strings "null" and
// "undefined", at any depth, in mappings and sequences alike.
// Containers are kept even when every child was removed.
//
// The boolean is false when v itself is removable; the returned value
// is then null and should be treated as absent.
func Normalize(v object.Value) (object.Value, bool) {
	if removable(v) {
		return object.Null(), false
	}

	switch v.Kind() {
	case object.KindSequence:
		items := v.Items()
		out := make([]object.Value, 0, len(items))
		for _, item := range items {
			if n, ok := Normalize(item); ok {
				out = append(out, n)
			}
		}
		return object.Sequence(out...), true

	case object.KindMapping:
		fields := v.Fields()
		out := make([]object.Field, 0, len(fields))
		for _, f := range fields {
			if n, ok := Normalize(f.Value); ok {
				out = append(out, object.F(f.Key, n))
			}
		}
		return object.Mapping(out...), true

	default:
		return v, true
	}
}

func removable(v object.Value) bool {
	switch v.Kind() {
	case object.KindNull:
		return true
	case object.KindScalar:
		s, ok := v.Scalar().(string)
		return ok && (s == "null" || s == "undefined")
	default:
		return false
	}
}
