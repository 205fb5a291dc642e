package core

import "github.com/prometheus/client_golang/prometheus"

var (
	dashboardLinkTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backstage_dashboard_link_total",
		Help: "Total number of dashboard link formatting attempts",
	}, []string{"app", "result"})

	renderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backstage_object_render_duration_seconds",
		Help:    "Duration of object view renders",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 100us to ~200ms
	}, []string{"mode"})
)

func init() {
	prometheus.MustRegister(dashboardLinkTotal, renderDuration)
}

func recordLink(app string, res FormatResult) {
	if app == "" {
		app = DefaultDashboardApp
	}
	result := "skipped"
	switch {
	case res.Link != "":
		result = "ok"
	case res.Error != "":
		result = "error"
	}
	dashboardLinkTotal.WithLabelValues(app, result).Inc()
}
