package core

import "github.com/azhar-beg/backstage/internal/object"

// LastAppliedAnnotation is written by `kubectl apply` and duplicates
// the whole object; it is noise in the structured table.
const LastAppliedAnnotation = "kubectl.kubernetes.io/last-applied-configuration"

// SanitizeForDisplay strips noisy metadata before an object is shown
// in the structured table:
//   - metadata.managedFields (server-side apply bookkeeping)
//   - the kubectl.kubernetes.io/last-applied-configuration annotation
//
// The annotations mapping is dropped when nothing else is left in it.
// The raw YAML view does not go through here; it honours the drawer's
// managed-fields toggle instead.
func SanitizeForDisplay(v object.Value) object.Value {
	metadata, ok := v.Get("metadata")
	if !ok || metadata.Kind() != object.KindMapping {
		return v
	}

	fields := metadata.Fields()
	kept := make([]object.Field, 0, len(fields))
	for _, f := range fields {
		switch f.Key {
		case ManagedFieldsKey:
			continue
		case "annotations":
			annotations, keep := withoutAnnotation(f.Value, LastAppliedAnnotation)
			if !keep {
				continue
			}
			f = object.F(f.Key, annotations)
		}
		kept = append(kept, f)
	}

	return replaceField(v, "metadata", object.Mapping(kept...))
}

// withoutAnnotation removes key from an annotations mapping. keep is
// false when the mapping became empty because of the removal.
func withoutAnnotation(annotations object.Value, key string) (out object.Value, keep bool) {
	if annotations.Kind() != object.KindMapping {
		return annotations, true
	}
	if _, ok := annotations.Get(key); !ok {
		return annotations, true
	}

	fields := annotations.Fields()
	kept := make([]object.Field, 0, len(fields))
	for _, f := range fields {
		if f.Key != key {
			kept = append(kept, f)
		}
	}
	return object.Mapping(kept...), len(kept) > 0
}

func replaceField(v object.Value, key string, replacement object.Value) object.Value {
	fields := v.Fields()
	for i, f := range fields {
		if f.Key == key {
			fields[i] = object.F(key, replacement)
		}
	}
	return object.Mapping(fields...)
}
