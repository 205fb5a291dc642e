package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/azhar-beg/backstage/internal/core"
	"github.com/azhar-beg/backstage/internal/dashboard"
	"github.com/azhar-beg/backstage/internal/providers/clusters"
)

const twoPods = `apiVersion: v1
kind: Pod
metadata:
  name: web-0
  namespace: shop
  managedFields:
    - manager: kubelet
status:
  phase: Running
---
---
null
---
apiVersion: v1
kind: Pod
metadata:
  name: web-1
  namespace: shop
`

func newTestUseCase() *core.ObjectViewUseCase {
	repo := clusters.NewRepo(core.Cluster{Name: "prod", DashboardURL: "https://k8s.example.com"})
	return core.NewObjectViewUseCase(repo, dashboard.NewRegistry(), core.NewViewCache(8), core.NewDrawerSessionStore(0))
}

func TestReadDocuments(t *testing.T) {
	t.Parallel()

	docs, err := readDocuments(strings.NewReader(twoPods))
	if err != nil {
		t.Fatalf("readDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for i, want := range []string{"web-0", "web-1"} {
		name, _ := docs[i].Lookup("metadata", "name")
		if name.String() != want {
			t.Errorf("document %d: name = %q, want %q", i, name.String(), want)
		}
	}
}

func TestReadDocuments_InvalidYAML(t *testing.T) {
	t.Parallel()

	if _, err := readDocuments(strings.NewReader("a: [1\n")); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}

func TestRunRender(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		flags    renderFlags
		contains []string
		excludes []string
	}{
		{
			name:     "yaml",
			flags:    renderFlags{output: outputYAML},
			contains: []string{"name: web-0", "---\n", "name: web-1"},
			excludes: []string{"managedFields"},
		},
		{
			name:     "yaml with managed fields",
			flags:    renderFlags{output: outputYAML, managedFields: true},
			contains: []string{"managedFields"},
		},
		{
			name:     "table",
			flags:    renderFlags{output: outputTable},
			contains: []string{"# web-0 (Pod)", "PATH", "status.phase", "Running"},
			excludes: []string{"managedFields"},
		},
		{
			name:  "link",
			flags: renderFlags{output: outputLink, cluster: "prod"},
			contains: []string{
				"web-0\thttps://k8s.example.com/#/pod/shop/web-0?namespace=shop",
				"web-1\thttps://k8s.example.com/#/pod/shop/web-1?namespace=shop",
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			if err := runRender(context.Background(), newTestUseCase(), &tc.flags, strings.NewReader(twoPods), &out); err != nil {
				t.Fatalf("runRender() error = %v", err)
			}
			for _, s := range tc.contains {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q:\n%s", s, out.String())
				}
			}
			for _, s := range tc.excludes {
				if strings.Contains(out.String(), s) {
					t.Errorf("output must not contain %q:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestRunRender_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		flags renderFlags
	}{
		{name: "unknown output", flags: renderFlags{output: "json"}},
		{name: "link without cluster", flags: renderFlags{output: outputLink}},
		{name: "unknown cluster", flags: renderFlags{output: outputLink, cluster: "staging"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if err := runRender(context.Background(), newTestUseCase(), &tc.flags, strings.NewReader(twoPods), &out); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
