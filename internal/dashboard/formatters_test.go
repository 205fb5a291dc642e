package dashboard

import (
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/azhar-beg/backstage/internal/core"
	"github.com/azhar-beg/backstage/internal/object"
)

func objectOf(kind, name, namespace string) object.Value {
	meta := []object.Field{}
	if name != "" {
		meta = append(meta, object.F("name", object.String(name)))
	}
	if namespace != "" {
		meta = append(meta, object.F("namespace", object.String(namespace)))
	}
	meta = append(meta, object.F("uid", object.String("u1")))
	return object.Mapping(
		object.F("kind", object.String(kind)),
		object.F("metadata", object.Mapping(meta...)),
	)
}

func linkOptions(cluster core.Cluster, kind, name, namespace string) core.LinkOptions {
	obj := objectOf(kind, name, namespace)
	app := cluster.DashboardApp
	if app == "" {
		app = core.DefaultDashboardApp
	}
	return core.LinkOptions{
		Cluster: cluster,
		App:     app,
		Object:  obj,
		Meta:    object.MetaOf(obj),
		Kind:    kind,
	}
}

var _ = Describe("Registry", func() {
	var r *Registry

	BeforeEach(func() {
		r = NewRegistry()
	})

	It("registers every built-in dashboard application", func() {
		Expect(r.apps()).To(ConsistOf("standard", "rancher", "openshift", "aks", "eks", "gke", "headlamp", "custom"))
	})

	It("rejects unknown applications", func() {
		cluster := core.Cluster{Name: "prod", DashboardURL: "https://k8s.example.com", DashboardApp: "grafana"}
		_, err := r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))

		var unsupported *core.ErrUnsupportedDashboard
		Expect(err).To(BeAssignableToTypeOf(unsupported))
		Expect(err.Error()).To(Equal("could not find Kubernetes dashboard app named 'grafana'"))
	})

	It("falls back to the standard application", func() {
		opts := linkOptions(core.Cluster{Name: "prod", DashboardURL: "https://k8s.example.com"}, "Pod", "pod-a", "default")
		opts.App = ""
		Expect(r.FormatLink(opts)).To(Equal("https://k8s.example.com/#/pod/default/pod-a?namespace=default"))
	})

	It("lets callers replace a formatter", func() {
		r.Register("standard", func(core.LinkOptions) (*url.URL, error) {
			return url.Parse("https://override.example.com/")
		})
		cluster := core.Cluster{Name: "prod", DashboardURL: "https://k8s.example.com"}
		Expect(r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))).To(Equal("https://override.example.com/"))
	})

	It("warns about missing parameters when the parameter map is empty", func() {
		cluster := core.Cluster{Name: "azure", DashboardApp: "aks", DashboardParameters: map[string]any{}}
		res := core.FormatClusterLink(r, cluster, objectOf("Pod", "pod-a", "default"), "Pod")

		Expect(res.Link).To(BeEmpty())
		Expect(res.Error).To(ContainSubstring("AKS dashboard requires a dashboardParameters option"))
	})

	It("surfaces formatter failures through FormatClusterLink", func() {
		cluster := core.Cluster{Name: "prod", DashboardApp: "eks", DashboardParameters: map[string]any{"region": "us-east-1"}}
		res := core.FormatClusterLink(r, cluster, objectOf("Pod", "pod-a", "default"), "Pod")
		Expect(res.Link).To(BeEmpty())
		Expect(res.Error).To(ContainSubstring("cluster named 'prod'"))
		Expect(res.Error).To(ContainSubstring("EKS formatter is not yet implemented"))
	})
})

var _ = Describe("standard formatter", func() {
	cluster := core.Cluster{Name: "prod", DashboardURL: "https://k8s.example.com"}

	DescribeTable("links into the fragment router",
		func(c core.Cluster, kind, name, namespace, want string) {
			Expect(NewRegistry().FormatLink(linkOptions(c, kind, name, namespace))).To(Equal(want))
		},
		Entry("pod", cluster, "Pod", "pod-a", "default",
			"https://k8s.example.com/#/pod/default/pod-a?namespace=default"),
		Entry("lower-case kind", cluster, "pod", "pod-a", "default",
			"https://k8s.example.com/#/pod/default/pod-a?namespace=default"),
		Entry("hpa maps to its deployment page", cluster, "HorizontalPodAutoscaler", "web", "apps",
			"https://k8s.example.com/#/deployment/apps/web?namespace=apps"),
		Entry("unmapped kind lands on workloads", cluster, "ConfigMap", "cfg", "default",
			"https://k8s.example.com/#/workloads?namespace=default"),
		Entry("cluster scoped object", cluster, "PersistentVolume", "pv-1", "",
			"https://k8s.example.com/"),
		Entry("base path is preserved",
			core.Cluster{Name: "prod", DashboardURL: "https://example.com/dashboard"}, "Service", "svc", "default",
			"https://example.com/dashboard/#/service/default/svc?namespace=default"),
	)

	It("requires a dashboard URL", func() {
		_, err := NewRegistry().FormatLink(linkOptions(core.Cluster{Name: "prod"}, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(ContainSubstring("dashboardUrl")))
	})

	It("rejects relative dashboard URLs", func() {
		_, err := NewRegistry().FormatLink(linkOptions(core.Cluster{Name: "prod", DashboardURL: "k8s.example.com"}, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(ContainSubstring("absolute URL")))
	})
})

var _ = Describe("rancher formatter", func() {
	cluster := core.Cluster{Name: "prod", DashboardApp: "rancher", DashboardURL: "https://rancher.example.com/dashboard/c/c-1"}

	DescribeTable("links into the cluster explorer",
		func(kind, name, namespace, want string) {
			Expect(NewRegistry().FormatLink(linkOptions(cluster, kind, name, namespace))).To(Equal(want))
		},
		Entry("deployment", "Deployment", "web", "default",
			"https://rancher.example.com/dashboard/c/c-1/explorer/apps.deployment/default/web"),
		Entry("ingress", "Ingress", "web", "default",
			"https://rancher.example.com/dashboard/c/c-1/explorer/networking.k8s.io.ingress/default/web"),
		Entry("unmapped kind", "Secret", "token", "default",
			"https://rancher.example.com/dashboard/c/c-1/explorer/workload"),
		Entry("no namespace", "Node", "node-1", "",
			"https://rancher.example.com/dashboard/c/c-1/"),
	)
})

var _ = Describe("openshift formatter", func() {
	cluster := core.Cluster{Name: "prod", DashboardApp: "openshift", DashboardURL: "https://console.example.com"}

	DescribeTable("links into the console",
		func(kind, name, namespace, want string) {
			Expect(NewRegistry().FormatLink(linkOptions(cluster, kind, name, namespace))).To(Equal(want))
		},
		Entry("deployment", "Deployment", "web", "default",
			"https://console.example.com/k8s/ns/default/deployments/web"),
		Entry("hpa", "HorizontalPodAutoscaler", "web", "default",
			"https://console.example.com/k8s/ns/default/horizontalpodautoscalers/web"),
		Entry("unmapped kind", "ConfigMap", "cfg", "team-a",
			"https://console.example.com/k8s/cluster/projects/team-a"),
		Entry("no namespace", "Node", "node-1", "",
			"https://console.example.com/"),
	)
})

var _ = Describe("headlamp formatter", func() {
	cluster := core.Cluster{Name: "prod", DashboardApp: "headlamp", DashboardURL: "https://headlamp.example.com"}

	DescribeTable("links into the cluster scoped routes",
		func(c core.Cluster, kind, name, namespace, want string) {
			Expect(NewRegistry().FormatLink(linkOptions(c, kind, name, namespace))).To(Equal(want))
		},
		Entry("pod", cluster, "Pod", "pod-a", "default",
			"https://headlamp.example.com/c/prod/pods/default/pod-a"),
		Entry("persistent volume", cluster, "PersistentVolume", "pv-1", "",
			"https://headlamp.example.com/c/prod/persistentvolumes/pv-1"),
		Entry("unmapped kind", cluster, "Widget", "w", "default",
			"https://headlamp.example.com/c/prod/namespaces/default"),
		Entry("nothing to point at", cluster, "Node", "node-1", "",
			"https://headlamp.example.com/c/prod/"),
		Entry("cluster name parameter",
			core.Cluster{Name: "prod", DashboardApp: "headlamp", DashboardURL: "https://headlamp.example.com",
				DashboardParameters: map[string]any{"clusterName": "main"}},
			"Deployment", "web", "default",
			"https://headlamp.example.com/c/main/deployments/default/web"),
	)
})

var _ = Describe("gke formatter", func() {
	params := func() map[string]any {
		return map[string]any{"projectId": "p1", "region": "europe-west1", "clusterName": "c1"}
	}

	DescribeTable("links into the cloud console",
		func(kind, name, namespace, want string) {
			cluster := core.Cluster{Name: "prod", DashboardApp: "gke", DashboardParameters: params()}
			Expect(NewRegistry().FormatLink(linkOptions(cluster, kind, name, namespace))).To(Equal(want))
		},
		Entry("deployment lands on overview", "Deployment", "web", "default",
			"https://console.cloud.google.com/kubernetes/deployment/europe-west1/c1/default/web/overview?project=p1"),
		Entry("pod lands on details", "Pod", "pod-a", "default",
			"https://console.cloud.google.com/kubernetes/pod/europe-west1/c1/default/pod-a/details?project=p1"),
		Entry("incomplete object lands on the cluster", "Pod", "", "default",
			"https://console.cloud.google.com/kubernetes/clusters/details/europe-west1/c1/details?project=p1"),
	)

	It("names the missing parameter", func() {
		p := params()
		delete(p, "region")
		cluster := core.Cluster{Name: "prod", DashboardApp: "gke", DashboardParameters: p}
		_, err := NewRegistry().FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(`GKE dashboard requires a "region" of type string in the dashboardParameters option`))
	})

	It("rejects non-string parameters", func() {
		p := params()
		p["projectId"] = 42
		cluster := core.Cluster{Name: "prod", DashboardApp: "gke", DashboardParameters: p}
		_, err := NewRegistry().FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(ContainSubstring(`"projectId"`)))
	})
})

var _ = Describe("aks formatter", func() {
	const prefix = "https://portal.azure.com/#blade/Microsoft_Azure_ContainerService/AksK8ResourceMenuBlade/overview-Deployment" +
		"/aksClusterId/%2Fsubscriptions%2Fs1%2FresourceGroups%2Frg1%2Fproviders%2FMicrosoft.ContainerService%2FmanagedClusters%2Faks1" +
		"/resource/"

	It("encodes the cluster resource id and the object", func() {
		cluster := core.Cluster{Name: "prod", DashboardApp: "aks", DashboardParameters: map[string]any{
			"subscriptionId": "s1", "resourceGroup": "rg1", "clusterName": "aks1",
		}}
		link, err := NewRegistry().FormatLink(linkOptions(cluster, "Deployment", "web", "default"))
		Expect(err).NotTo(HaveOccurred())
		Expect(link).To(HavePrefix(prefix))

		resource, err := url.QueryUnescape(strings.TrimPrefix(link, prefix))
		Expect(err).NotTo(HaveOccurred())
		Expect(resource).To(MatchJSON(`{"kind":"Deployment","metadata":{"name":"web","namespace":"default","uid":"u1"}}`))
	})

	It("requires its parameters", func() {
		cluster := core.Cluster{Name: "prod", DashboardApp: "aks", DashboardURL: "https://portal.azure.com"}
		_, err := NewRegistry().FormatLink(linkOptions(cluster, "Deployment", "web", "default"))
		Expect(err).To(MatchError("AKS dashboard requires a dashboardParameters option"))
	})
})

var _ = Describe("custom formatter", func() {
	var (
		tf *templateFormatter
		r  *Registry
	)

	BeforeEach(func() {
		tf = newTemplateFormatter()
		r = NewRegistry()
		r.Register("custom", tf.format)
	})

	custom := func(tmpl, dashboardURL string) core.Cluster {
		return core.Cluster{
			Name:                "prod",
			DashboardApp:        "custom",
			DashboardURL:        dashboardURL,
			DashboardParameters: map[string]any{"urlTemplate": tmpl, "team": "web"},
		}
	}

	It("renders absolute templates", func() {
		cluster := custom("{{.DashboardURL}}/{{lower .Kind}}s/{{.Namespace}}/{{.Name}}?team={{.Parameters.team}}", "https://ui.example.com/")
		Expect(r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))).
			To(Equal("https://ui.example.com/pods/default/pod-a?team=web"))
	})

	It("resolves relative templates below the dashboard URL", func() {
		cluster := custom("ns/{{.Namespace}}/{{index .Object \"metadata\" \"uid\"}}", "https://ui.example.com/base")
		Expect(r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))).
			To(Equal("https://ui.example.com/base/ns/default/u1"))
	})

	It("fails on missing keys", func() {
		cluster := custom("https://ui.example.com/{{.Parameters.missing}}", "")
		_, err := r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(ContainSubstring("render url template")))
	})

	It("fails on invalid templates", func() {
		cluster := custom("https://ui.example.com/{{", "")
		_, err := r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(ContainSubstring("parse url template")))
		Expect(tf.cached()).To(BeZero())
	})

	It("requires the template parameter", func() {
		cluster := core.Cluster{Name: "prod", DashboardApp: "custom", DashboardURL: "https://ui.example.com"}
		_, err := r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))
		Expect(err).To(MatchError(ContainSubstring(`"urlTemplate"`)))
	})

	It("parses each template once", func() {
		cluster := custom("{{.DashboardURL}}/{{.Name}}", "https://ui.example.com")
		for range 3 {
			_, err := r.FormatLink(linkOptions(cluster, "Pod", "pod-a", "default"))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(tf.cached()).To(Equal(1))
	})
})

var _ = Describe("dashboard parameters", func() {
	It("match keys case-insensitively", func() {
		cluster := core.Cluster{Name: "prod", DashboardApp: "gke", DashboardParameters: map[string]any{
			"projectid": "p1", "region": "r1", "clustername": "c1",
		}}
		Expect(NewRegistry().FormatLink(linkOptions(cluster, "Deployment", "web", "default"))).
			To(Equal("https://console.cloud.google.com/kubernetes/deployment/r1/c1/default/web/overview?project=p1"))
	})
})
