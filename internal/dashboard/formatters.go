package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/azhar-beg/backstage/internal/core"
)

var standardKinds = map[string]string{
	"deployment":              "deployment",
	"pod":                     "pod",
	"ingress":                 "ingress",
	"service":                 "service",
	"horizontalpodautoscaler": "deployment",
	"persistentvolume":        "persistentvolume",
}

// standardFormatter targets the upstream Kubernetes dashboard, which
// routes entirely inside the URL fragment.
func standardFormatter(opts core.LinkOptions) (*url.URL, error) {
	u, err := dashboardURL(opts)
	if err != nil {
		return nil, err
	}
	// Fragment is escaped by url.URL.String.
	name := opts.Meta.Name
	namespace := opts.Meta.Namespace
	kind := lookupKind(standardKinds, opts.Kind)

	switch {
	case kind != "" && name != "" && namespace != "":
		u.Fragment = "/" + kind + "/" + namespace + "/" + name
	case namespace != "":
		u.Fragment = "/workloads"
	}
	if namespace != "" {
		u.Fragment += "?namespace=" + namespace
	}
	return u, nil
}

var rancherKinds = map[string]string{
	"deployment":              "apps.deployment",
	"pod":                     "pod",
	"ingress":                 "networking.k8s.io.ingress",
	"service":                 "service",
	"horizontalpodautoscaler": "autoscaling.horizontalpodautoscaler",
}

func rancherFormatter(opts core.LinkOptions) (*url.URL, error) {
	u, err := dashboardURL(opts)
	if err != nil {
		return nil, err
	}
	name := url.PathEscape(opts.Meta.Name)
	namespace := url.PathEscape(opts.Meta.Namespace)
	kind := lookupKind(rancherKinds, opts.Kind)

	switch {
	case kind != "" && name != "" && namespace != "":
		return resolve(u, "explorer/"+kind+"/"+namespace+"/"+name)
	case namespace != "":
		return resolve(u, "explorer/workload")
	}
	return u, nil
}

var openshiftKinds = map[string]string{
	"deployment":              "deployments",
	"pod":                     "pods",
	"ingress":                 "ingresses",
	"service":                 "services",
	"horizontalpodautoscaler": "horizontalpodautoscalers",
	"persistentvolume":        "persistentvolumes",
}

func openshiftFormatter(opts core.LinkOptions) (*url.URL, error) {
	u, err := dashboardURL(opts)
	if err != nil {
		return nil, err
	}
	name := url.PathEscape(opts.Meta.Name)
	namespace := url.PathEscape(opts.Meta.Namespace)
	kind := lookupKind(openshiftKinds, opts.Kind)

	switch {
	case kind != "" && name != "" && namespace != "":
		return resolve(u, "k8s/ns/"+namespace+"/"+kind+"/"+name)
	case namespace != "":
		return resolve(u, "k8s/cluster/projects/"+namespace)
	}
	return u, nil
}

var headlampKinds = map[string]string{
	"deployment":              "deployments",
	"pod":                     "pods",
	"ingress":                 "ingresses",
	"service":                 "services",
	"horizontalpodautoscaler": "horizontalpodautoscalers",
	"persistentvolume":        "persistentvolumes",
	"statefulset":             "statefulsets",
	"daemonset":               "daemonsets",
	"job":                     "jobs",
	"cronjob":                 "cronjobs",
	"configmap":               "configmaps",
	"secret":                  "secrets",
}

// headlampFormatter links into Headlamp, which scopes every route by
// cluster. The cluster segment is dashboardParameters.clusterName when
// set, the catalogue name otherwise.
func headlampFormatter(opts core.LinkOptions) (*url.URL, error) {
	u, err := dashboardURL(opts)
	if err != nil {
		return nil, err
	}
	cluster := opts.Cluster.Name
	if s, ok := lookupParam(opts.Cluster.DashboardParameters, "clusterName").(string); ok && s != "" {
		cluster = s
	}
	if cluster == "" {
		cluster = "main"
	}
	cluster = url.PathEscape(cluster)
	name := url.PathEscape(opts.Meta.Name)
	namespace := url.PathEscape(opts.Meta.Namespace)
	kind := lookupKind(headlampKinds, opts.Kind)

	switch {
	case kind == "persistentvolumes" && name != "":
		return resolve(u, "c/"+cluster+"/"+kind+"/"+name)
	case kind != "" && name != "" && namespace != "":
		return resolve(u, "c/"+cluster+"/"+kind+"/"+namespace+"/"+name)
	case namespace != "":
		return resolve(u, "c/"+cluster+"/namespaces/"+namespace)
	}
	return resolve(u, "c/"+cluster+"/")
}

const aksBase = "https://portal.azure.com/#blade/Microsoft_Azure_ContainerService/AksK8ResourceMenuBlade/overview-"

// aksFormatter links into the Azure portal. The dashboard URL is fixed;
// the cluster is identified by its ARM resource ID.
func aksFormatter(opts core.LinkOptions) (*url.URL, error) {
	subscription, err := stringParam(opts, "subscriptionId")
	if err != nil {
		return nil, err
	}
	group, err := stringParam(opts, "resourceGroup")
	if err != nil {
		return nil, err
	}
	cluster, err := stringParam(opts, "clusterName")
	if err != nil {
		return nil, err
	}

	resourceID := fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.ContainerService/managedClusters/%s",
		subscription, group, cluster)

	type aksMetadata struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
		UID       string `json:"uid"`
	}
	resource, err := json.Marshal(struct {
		Kind     string      `json:"kind"`
		Metadata aksMetadata `json:"metadata"`
	}{
		Kind: opts.Kind,
		Metadata: aksMetadata{
			Name:      opts.Meta.Name,
			Namespace: opts.Meta.Namespace,
			UID:       opts.Meta.UID,
		},
	})
	if err != nil {
		return nil, err
	}

	return url.Parse(aksBase + opts.Kind +
		"/aksClusterId/" + escapeComponent(resourceID) +
		"/resource/" + escapeComponent(string(resource)))
}

func eksFormatter(core.LinkOptions) (*url.URL, error) {
	return nil, errors.New("EKS formatter is not yet implemented. Please, contribute!")
}

var gkeKinds = map[string]string{
	"deployment":              "deployment",
	"pod":                     "pod",
	"ingress":                 "ingress",
	"service":                 "service",
	"horizontalpodautoscaler": "deployment",
}

// gkeKindsWithDetails land on the details tab instead of overview.
var gkeKindsWithDetails = map[string]bool{"ingress": true, "pod": true}

const gkeBase = "https://console.cloud.google.com/"

func gkeFormatter(opts core.LinkOptions) (*url.URL, error) {
	project, err := stringParam(opts, "projectId")
	if err != nil {
		return nil, err
	}
	region, err := stringParam(opts, "region")
	if err != nil {
		return nil, err
	}
	cluster, err := stringParam(opts, "clusterName")
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(gkeBase)
	name := url.PathEscape(opts.Meta.Name)
	namespace := url.PathEscape(opts.Meta.Namespace)
	kind := lookupKind(gkeKinds, opts.Kind)
	region = url.PathEscape(region)
	cluster = url.PathEscape(cluster)

	var path string
	if kind != "" && name != "" && namespace != "" {
		landing := "overview"
		if gkeKindsWithDetails[kind] {
			landing = "details"
		}
		path = strings.Join([]string{"kubernetes", kind, region, cluster, namespace, name, landing}, "/")
	} else {
		path = strings.Join([]string{"kubernetes/clusters/details", region, cluster, "details"}, "/")
	}

	u, err := resolve(base, path)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("project", project)
	u.RawQuery = q.Encode()
	return u, nil
}

// escapeComponent escapes s for use as a single URL component, with
// spaces as %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
