// Package clusters provides the cluster catalogue backing
// core.ClusterRepo. Clusters come from the config file and,
// optionally, from the contexts of a kubeconfig file. No cluster API
// is contacted.
package clusters

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"k8s.io/client-go/tools/clientcmd"

	"github.com/azhar-beg/backstage/internal/config"
	"github.com/azhar-beg/backstage/internal/core"
)

// Repo is an immutable, in-memory cluster catalogue. It implements
// core.ClusterRepo.
type Repo struct {
	clusters map[string]core.Cluster
	names    []string
}

// Verify at compile time that Repo satisfies core.ClusterRepo.
var _ core.ClusterRepo = (*Repo)(nil)

// New builds the catalogue from configuration. Entries of the config
// file win over kubeconfig contexts with the same name.
func New(conf *config.Config) (*Repo, error) {
	configured, err := conf.Clusters()
	if err != nil {
		return nil, err
	}

	var discovered []core.Cluster
	if path := conf.RenderKubeconfig(); path != "" {
		discovered, err = FromKubeconfig(path)
		if err != nil {
			return nil, err
		}
	}

	repo := NewRepo(append(discovered, configured...)...)
	slog.Default().With("component", "cluster-catalogue").Info("loaded clusters",
		"configured", len(configured),
		"kubeconfig", len(discovered),
		"total", len(repo.names),
	)
	return repo, nil
}

// NewRepo returns a catalogue of the given clusters. A later entry
// replaces an earlier one with the same name.
func NewRepo(clusters ...core.Cluster) *Repo {
	r := &Repo{clusters: make(map[string]core.Cluster, len(clusters))}
	for _, c := range clusters {
		r.clusters[c.Name] = c
	}
	for name := range r.clusters {
		r.names = append(r.names, name)
	}
	slices.Sort(r.names)
	return r
}

// Get implements core.ClusterRepo.
func (r *Repo) Get(_ context.Context, name string) (core.Cluster, error) {
	c, ok := r.clusters[name]
	if !ok {
		return core.Cluster{}, &core.ErrClusterNotFound{Cluster: name}
	}
	return c, nil
}

// List implements core.ClusterRepo. Clusters are sorted by name.
func (r *Repo) List(_ context.Context) ([]core.Cluster, error) {
	out := make([]core.Cluster, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.clusters[name])
	}
	return out, nil
}

// FromKubeconfig turns every context of a kubeconfig file into a
// catalogue entry named after the context. Contexts pointing at a
// missing cluster are skipped.
func FromKubeconfig(path string) ([]core.Cluster, error) {
	cfg, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig %s: %w", path, err)
	}

	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]core.Cluster, 0, len(names))
	for _, name := range names {
		kctx := cfg.Contexts[name]
		if kctx == nil {
			continue
		}
		cluster, ok := cfg.Clusters[kctx.Cluster]
		if !ok || cluster == nil {
			slog.Warn("kubeconfig context references unknown cluster", "context", name, "cluster", kctx.Cluster)
			continue
		}
		out = append(out, core.Cluster{
			Name: name,
			URL:  strings.TrimSuffix(cluster.Server, "/"),
		})
	}
	return out, nil
}
