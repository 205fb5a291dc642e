package object

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Meta is the identifying subset of a Kubernetes object.
type Meta struct {
	APIVersion string
	Kind       string
	Name       string
	Namespace  string
	UID        string
}

// GroupVersionKind parses APIVersion and Kind.
func (m Meta) GroupVersionKind() schema.GroupVersionKind {
	return schema.FromAPIVersionAndKind(m.APIVersion, m.Kind)
}

// MetaOf reads type and object metadata from v. Fields that are absent
// or not strings are left empty.
func MetaOf(v Value) Meta {
	m, ok := v.ToAny().(map[string]any)
	if !ok {
		return Meta{}
	}
	u := unstructured.Unstructured{Object: m}
	return Meta{
		APIVersion: u.GetAPIVersion(),
		Kind:       u.GetKind(),
		Name:       u.GetName(),
		Namespace:  u.GetNamespace(),
		UID:        string(u.GetUID()),
	}
}
