package handler

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/azhar-beg/backstage/internal/core"
)

// ObjectViewServiceName is the fully-qualified name of the object view
// service.
const ObjectViewServiceName = "backstage.objectview.v1.ObjectViewService"

// Procedure paths of ObjectViewService.
const (
	ObjectViewServiceFormatLinkProcedure    = "/" + ObjectViewServiceName + "/FormatLink"
	ObjectViewServiceNormalizeProcedure     = "/" + ObjectViewServiceName + "/Normalize"
	ObjectViewServiceRenderYAMLProcedure    = "/" + ObjectViewServiceName + "/RenderYAML"
	ObjectViewServiceRenderProcedure        = "/" + ObjectViewServiceName + "/Render"
	ObjectViewServiceRenderBatchProcedure   = "/" + ObjectViewServiceName + "/RenderBatch"
	ObjectViewServiceListClustersProcedure  = "/" + ObjectViewServiceName + "/ListClusters"
	ObjectViewServiceOpenDrawerProcedure    = "/" + ObjectViewServiceName + "/OpenDrawer"
	ObjectViewServiceUpdateDrawerProcedure  = "/" + ObjectViewServiceName + "/UpdateDrawer"
	ObjectViewServiceGetDrawerProcedure     = "/" + ObjectViewServiceName + "/GetDrawer"
	ObjectViewServiceDiscardDrawerProcedure = "/" + ObjectViewServiceName + "/DiscardDrawer"
)

type (
	structRequest  = connect.Request[structpb.Struct]
	structResponse = connect.Response[structpb.Struct]
)

// ObjectViewService exposes the object drawer over ConnectRPC. Every
// procedure takes and returns a google.protobuf.Struct; objects travel
// either as a single-document "manifest" string, which keeps key
// order, or as an "object" struct.
type ObjectViewService struct {
	view *core.ObjectViewUseCase
}

// NewObjectViewService returns an ObjectViewService backed by the
// given use-case.
func NewObjectViewService(view *core.ObjectViewUseCase) *ObjectViewService {
	return &ObjectViewService{view: view}
}

// NewObjectViewServiceHandler builds an HTTP handler serving every
// procedure of svc. It returns the path prefix to mount it on.
func NewObjectViewServiceHandler(svc *ObjectViewService, opts ...connect.HandlerOption) (string, http.Handler) {
	procedures := map[string]func(context.Context, *structRequest) (*structResponse, error){
		ObjectViewServiceFormatLinkProcedure:    svc.FormatLink,
		ObjectViewServiceNormalizeProcedure:     svc.Normalize,
		ObjectViewServiceRenderYAMLProcedure:    svc.RenderYAML,
		ObjectViewServiceRenderProcedure:        svc.Render,
		ObjectViewServiceRenderBatchProcedure:   svc.RenderBatch,
		ObjectViewServiceListClustersProcedure:  svc.ListClusters,
		ObjectViewServiceOpenDrawerProcedure:    svc.OpenDrawer,
		ObjectViewServiceUpdateDrawerProcedure:  svc.UpdateDrawer,
		ObjectViewServiceGetDrawerProcedure:     svc.GetDrawer,
		ObjectViewServiceDiscardDrawerProcedure: svc.DiscardDrawer,
	}

	handlers := make(map[string]http.Handler, len(procedures))
	for procedure, unary := range procedures {
		handlers[procedure] = connect.NewUnaryHandler(procedure, unary, opts...)
	}

	return "/" + ObjectViewServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// FormatLink returns the dashboard link of an object on a cluster.
func (s *ObjectViewService) FormatLink(ctx context.Context, req *structRequest) (*structResponse, error) {
	obj, err := requestObject(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	res, err := s.view.FormatLink(ctx, stringField(req.Msg, "cluster"), obj, stringField(req.Msg, "kind"))
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return respond(res)
}

// Normalize strips null-like values from an object. "present" is false
// when the whole object was null-like. Non-finite floats are returned
// in "object" as ".nan", ".inf" or "-.inf"; "manifest" is exact.
func (s *ObjectViewService) Normalize(_ context.Context, req *structRequest) (*structResponse, error) {
	obj, err := requestObject(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	normalized, ok := core.Normalize(obj)
	manifest, err := core.ToYAML(normalized, true)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&structpb.Struct{Fields: map[string]*structpb.Value{
		"present":  structpb.NewBoolValue(ok),
		"object":   objectValue(normalized),
		"manifest": structpb.NewStringValue(manifest),
	}}), nil
}

// RenderYAML renders an object as YAML, filtering managedFields unless
// "managedFields" is true.
func (s *ObjectViewService) RenderYAML(_ context.Context, req *structRequest) (*structResponse, error) {
	obj, err := requestObject(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	out, err := s.view.YAML(obj, boolField(req.Msg, "managedFields"))
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return respond(map[string]any{"yaml": out})
}

// Render returns the drawer view of one object without creating a
// session.
func (s *ObjectViewService) Render(ctx context.Context, req *structRequest) (*structResponse, error) {
	rr, err := renderRequest(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	view, err := s.view.Render(ctx, rr)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return respond(view)
}

// RenderBatch renders every entry of "requests", in order.
func (s *ObjectViewService) RenderBatch(ctx context.Context, req *structRequest) (*structResponse, error) {
	list := req.Msg.GetFields()["requests"].GetListValue()
	if list == nil {
		return nil, domainErrorToConnectError(&core.ErrInvalidInput{Field: "requests", Message: "a list of render requests is required"})
	}

	reqs := make([]core.RenderRequest, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		msg := v.GetStructValue()
		if msg == nil {
			return nil, domainErrorToConnectError(&core.ErrInvalidInput{Field: "requests", Message: "entries must be objects"})
		}
		rr, err := renderRequest(msg)
		if err != nil {
			return nil, domainErrorToConnectError(withIndex(err, i))
		}
		reqs = append(reqs, rr)
	}

	views, err := s.view.RenderBatch(ctx, reqs)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return respond(map[string]any{"views": views})
}

// ListClusters returns the cluster catalogue. Dashboard parameters are
// not exposed.
func (s *ObjectViewService) ListClusters(ctx context.Context, _ *structRequest) (*structResponse, error) {
	clusters, err := s.view.Clusters(ctx)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	out := make([]map[string]any, 0, len(clusters))
	for _, c := range clusters {
		app := c.DashboardApp
		if app == "" && c.DashboardURL != "" {
			app = core.DefaultDashboardApp
		}
		out = append(out, map[string]any{
			"name":         c.Name,
			"url":          c.URL,
			"dashboardUrl": c.DashboardURL,
			"dashboardApp": app,
		})
	}
	return respond(map[string]any{"clusters": out})
}

// OpenDrawer starts a drawer session.
func (s *ObjectViewService) OpenDrawer(ctx context.Context, req *structRequest) (*structResponse, error) {
	rr, err := renderRequest(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	view, err := s.view.OpenDrawer(ctx, rr)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return respond(view)
}

// UpdateDrawer applies "action" to the session "sessionId".
func (s *ObjectViewService) UpdateDrawer(ctx context.Context, req *structRequest) (*structResponse, error) {
	id, err := sessionID(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	action, err := drawerAction(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	view, err := s.view.UpdateDrawer(ctx, id, action)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return respond(view)
}

// GetDrawer returns the current view of a session.
func (s *ObjectViewService) GetDrawer(ctx context.Context, req *structRequest) (*structResponse, error) {
	id, err := sessionID(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	view, err := s.view.GetDrawer(ctx, id)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return respond(view)
}

// DiscardDrawer deletes a session.
func (s *ObjectViewService) DiscardDrawer(ctx context.Context, req *structRequest) (*structResponse, error) {
	id, err := sessionID(req.Msg)
	if err != nil {
		return nil, domainErrorToConnectError(err)
	}

	if err := s.view.DiscardDrawer(ctx, id); err != nil {
		return nil, domainErrorToConnectError(err)
	}
	return connect.NewResponse(&structpb.Struct{}), nil
}
