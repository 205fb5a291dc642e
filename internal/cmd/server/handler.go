package server

import (
	"net/http"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"connectrpc.com/grpcreflect"
	"connectrpc.com/otelconnect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/azhar-beg/backstage/internal/handler"
)

// Handler mounts the API services and the operational endpoints.
type Handler struct {
	objectView *handler.ObjectViewService
}

func NewHandler(objectView *handler.ObjectViewService) *Handler {
	return &Handler{
		objectView: objectView,
	}
}

// Mount registers all handlers, middlewares, and observability tools to the mux.
func (h *Handler) Mount(mux *http.ServeMux) error {
	// Prometheus exporter first so otelconnect picks up the meter provider.
	if err := h.registerMetrics(mux); err != nil {
		return err
	}

	otelInterceptor, err := otelconnect.NewInterceptor()
	if err != nil {
		return err
	}

	interceptors := connect.WithInterceptors(
		otelInterceptor,
	)

	h.registerOpsHandlers(mux, []string{handler.ObjectViewServiceName})

	mux.Handle(handler.NewObjectViewServiceHandler(h.objectView, interceptors))

	return nil
}

// registerOpsHandlers sets up Reflection and Health Check. Only
// services with compiled descriptors are advertised for reflection.
func (h *Handler) registerOpsHandlers(mux *http.ServeMux, serviceNames []string) {
	reflector := grpcreflect.NewStaticReflector(grpchealth.HealthV1ServiceName)
	mux.Handle(grpcreflect.NewHandlerV1(reflector))
	mux.Handle(grpcreflect.NewHandlerV1Alpha(reflector))

	checker := grpchealth.NewStaticChecker(serviceNames...)
	mux.Handle(grpchealth.NewHandler(checker))
}

func (h *Handler) registerMetrics(mux *http.ServeMux) error {
	exporter, err := prometheus.New()
	if err != nil {
		return err
	}
	otel.SetMeterProvider(metric.NewMeterProvider(metric.WithReader(exporter)))
	mux.Handle("/metrics", promhttp.Handler())
	return nil
}
