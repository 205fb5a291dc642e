package core

import "context"

// Cluster describes a Kubernetes cluster known to the portal and the
// dashboard its objects link to. DashboardParameters carries
// application specific settings (a GKE project id, an AKS resource
// group, a URL template...).
type Cluster struct {
	Name                string         `mapstructure:"name"`
	URL                 string         `mapstructure:"url"`
	DashboardURL        string         `mapstructure:"dashboardUrl"`
	DashboardApp        string         `mapstructure:"dashboardApp"`
	DashboardParameters map[string]any `mapstructure:"dashboardParameters"`
}

// ClusterRepo resolves clusters by name.
//
//nolint:revive // allows this exported interface name.
type ClusterRepo interface {
	Get(ctx context.Context, name string) (Cluster, error)
	List(ctx context.Context) ([]Cluster, error)
}
