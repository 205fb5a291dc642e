package core

import (
	"slices"
	"testing"

	"github.com/azhar-beg/backstage/internal/object"
)

func TestFlatten(t *testing.T) {
	in := mustParse(t, `
metadata:
  name: pod-a
  labels:
    app.kubernetes.io/name: web
spec:
  containers:
    - name: app
      image: nginx:1.27
  volumes: []
status: {}
`)

	want := []Row{
		{Path: "metadata.name", Value: "pod-a"},
		{Path: `metadata.labels["app.kubernetes.io/name"]`, Value: "web"},
		{Path: "spec.containers[0].name", Value: "app"},
		{Path: "spec.containers[0].image", Value: "nginx:1.27"},
		{Path: "spec.volumes", Value: "[]"},
		{Path: "status", Value: "{}"},
	}

	got := Flatten(in)
	if !slices.Equal(got, want) {
		t.Errorf("Flatten() =\n%v\nwant\n%v", got, want)
	}
}

func TestFlatten_Scalar(t *testing.T) {
	got := Flatten(object.Int(7))
	want := []Row{{Path: "", Value: "7"}}
	if !slices.Equal(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}
