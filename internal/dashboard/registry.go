// Package dashboard turns a Kubernetes object into a link to the
// cluster's web dashboard. Each supported dashboard application has
// its own URL rules; Registry dispatches on the application name
// configured for the cluster.
package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/azhar-beg/backstage/internal/core"
)

// Formatter builds the dashboard URL of one application.
type Formatter func(opts core.LinkOptions) (*url.URL, error)

// Registry implements core.LinkFormatter over a set of named
// formatters.
type Registry struct {
	formatters map[string]Formatter
}

// Verify at compile time that Registry satisfies core.LinkFormatter.
var _ core.LinkFormatter = (*Registry)(nil)

// NewRegistry returns a Registry with every built-in dashboard
// application registered.
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	r.Register("standard", standardFormatter)
	r.Register("rancher", rancherFormatter)
	r.Register("openshift", openshiftFormatter)
	r.Register("aks", aksFormatter)
	r.Register("eks", eksFormatter)
	r.Register("gke", gkeFormatter)
	r.Register("headlamp", headlampFormatter)
	r.Register("custom", newTemplateFormatter().format)
	return r
}

// Register adds or replaces the formatter of an application.
func (r *Registry) Register(app string, f Formatter) {
	r.formatters[app] = f
}

// FormatLink implements core.LinkFormatter.
func (r *Registry) FormatLink(opts core.LinkOptions) (string, error) {
	app := opts.App
	if app == "" {
		app = core.DefaultDashboardApp
	}
	f, ok := r.formatters[app]
	if !ok {
		return "", &core.ErrUnsupportedDashboard{App: app}
	}
	u, err := f(opts)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// dashboardURL parses the configured base URL and guarantees its path
// ends with a slash so relative references resolve below it.
func dashboardURL(opts core.LinkOptions) (*url.URL, error) {
	if opts.Cluster.DashboardURL == "" {
		return nil, fmt.Errorf("%s dashboard requires a dashboardUrl option", opts.App)
	}
	u, err := url.Parse(opts.Cluster.DashboardURL)
	if err != nil {
		return nil, fmt.Errorf("invalid dashboardUrl %q: %w", opts.Cluster.DashboardURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid dashboardUrl %q: an absolute URL is required", opts.Cluster.DashboardURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	return u, nil
}

// resolve joins a relative path below base.
func resolve(base *url.URL, path string) (*url.URL, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(rel), nil
}

// lookupKind maps a kind, case-insensitively, through a dashboard's
// kind table.
func lookupKind(table map[string]string, kind string) string {
	return table[strings.ToLower(kind)]
}

// stringParam returns a required string dashboard parameter.
func stringParam(opts core.LinkOptions, key string) (string, error) {
	if len(opts.Cluster.DashboardParameters) == 0 {
		return "", fmt.Errorf("%s dashboard requires a dashboardParameters option", strings.ToUpper(opts.App))
	}
	s, ok := lookupParam(opts.Cluster.DashboardParameters, key).(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s dashboard requires a %q of type string in the dashboardParameters option", strings.ToUpper(opts.App), key)
	}
	return s, nil
}

// lookupParam reads a dashboard parameter. Keys loaded through the
// config layer arrive lower-cased, so a case-insensitive match is used
// when the exact key is absent.
func lookupParam(params map[string]any, key string) any {
	if v, ok := params[key]; ok {
		return v
	}
	for k, v := range params {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}
