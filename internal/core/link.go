package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/azhar-beg/backstage/internal/object"
)

// DefaultDashboardApp is used when a cluster does not name its
// dashboard application.
const DefaultDashboardApp = "standard"

// LinkOptions is everything a dashboard formatter may look at.
type LinkOptions struct {
	Cluster Cluster
	// App is the resolved dashboard application, never empty.
	App    string
	Object object.Value
	Meta   object.Meta
	// Kind is the object kind as the caller named it ("Pod", "pod").
	Kind string
}

// LinkFormatter builds a dashboard URL for an object. Implementations
// live in the dashboard package; errors are expected for incomplete
// configuration and are turned into a FormatResult by
// FormatClusterLink.
type LinkFormatter interface {
	FormatLink(opts LinkOptions) (string, error)
}

// FormatResult carries either a dashboard link or a displayable
// warning. Both are empty when the cluster has neither a dashboard URL
// nor a dashboardParameters map and formatting was not attempted. An
// empty but present parameter map still counts as configured.
type FormatResult struct {
	Link  string `json:"link"`
	Error string `json:"error"`
}

// Attempted reports whether a link was produced or a warning raised.
func (r FormatResult) Attempted() bool {
	return r.Link != "" || r.Error != ""
}

// FormatClusterLink formats the dashboard link of obj on cluster. It
// never fails: formatter errors and panics are converted into the
// warning text shown to the user.
func FormatClusterLink(f LinkFormatter, cluster Cluster, obj object.Value, kind string) (res FormatResult) {
	if cluster.DashboardURL == "" && cluster.DashboardParameters == nil {
		return FormatResult{}
	}

	defer func() {
		if r := recover(); r != nil {
			res = FormatResult{Error: linkWarning(cluster, fmt.Errorf("formatter panic: %v", r))}
		}
	}()

	app := cluster.DashboardApp
	if app == "" {
		app = DefaultDashboardApp
	}

	link, err := f.FormatLink(LinkOptions{
		Cluster: cluster,
		App:     app,
		Object:  obj,
		Meta:    object.MetaOf(obj),
		Kind:    kind,
	})
	if err == nil && link == "" {
		err = errors.New("formatter returned an empty link")
	}
	if err != nil {
		return FormatResult{Error: linkWarning(cluster, err)}
	}
	return FormatResult{Link: link}
}

func linkWarning(cluster Cluster, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Could not format the link to the dashboard of your cluster named '%s'.", cluster.Name)
	if cluster.DashboardApp != "" {
		fmt.Fprintf(&b, " Its dashboardApp property has been set to '%s.'", cluster.DashboardApp)
	} else {
		fmt.Fprintf(&b, " Its dashboardApp property has not been set and defaulted to '%s'.", DefaultDashboardApp)
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintf(&b, " Error: %s", msg)
	}
	return b.String()
}
