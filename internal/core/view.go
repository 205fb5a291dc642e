package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/azhar-beg/backstage/internal/identity"
	"github.com/azhar-beg/backstage/internal/object"
)

// unknownName is the drawer title of objects without metadata.name.
const unknownName = "unknown name"

// maxBatchConcurrency caps the goroutines used by RenderBatch.
const maxBatchConcurrency = 8

// RenderRequest asks for the drawer view of one object. Cluster may be
// empty, in which case no dashboard link is attempted. Kind defaults
// to the object's own kind.
type RenderRequest struct {
	Cluster string
	Kind    string
	Object  object.Value
	State   DrawerState
}

// ObjectView is everything the drawer needs to draw itself. Rows is
// filled in structured mode and YAML in raw mode.
type ObjectView struct {
	SessionID string       `json:"sessionId,omitempty"`
	Title     string       `json:"title"`
	Kind      string       `json:"kind"`
	Cluster   string       `json:"cluster,omitempty"`
	Link      FormatResult `json:"link"`
	State     DrawerState  `json:"state"`
	Rows      []Row        `json:"rows,omitempty"`
	YAML      string       `json:"yaml,omitempty"`
}

// ObjectViewUseCase renders objects for the drawer and manages drawer
// sessions.
type ObjectViewUseCase struct {
	clusters  ClusterRepo
	formatter LinkFormatter
	cache     *ViewCache
	sessions  *DrawerSessionStore
	log       *slog.Logger
}

// NewObjectViewUseCase returns a use case wired to its collaborators.
func NewObjectViewUseCase(clusters ClusterRepo, formatter LinkFormatter, cache *ViewCache, sessions *DrawerSessionStore) *ObjectViewUseCase {
	return &ObjectViewUseCase{
		clusters:  clusters,
		formatter: formatter,
		cache:     cache,
		sessions:  sessions,
		log:       slog.Default().With("component", "object-view"),
	}
}

// Clusters lists the cluster catalogue.
func (uc *ObjectViewUseCase) Clusters(ctx context.Context) ([]Cluster, error) {
	return uc.clusters.List(ctx)
}

// FormatLink resolves the cluster and formats the dashboard link of
// obj. Only an unknown cluster is an error; formatting failures are
// reported inside the FormatResult.
func (uc *ObjectViewUseCase) FormatLink(ctx context.Context, clusterName string, obj object.Value, kind string) (FormatResult, error) {
	if clusterName == "" {
		return FormatResult{}, &ErrInvalidInput{Field: "cluster", Message: "cluster name is required"}
	}
	cluster, err := uc.clusters.Get(ctx, clusterName)
	if err != nil {
		return FormatResult{}, err
	}
	return uc.formatLink(cluster, obj, uc.kindOf(obj, kind)), nil
}

// YAML renders obj as YAML, using the view cache.
func (uc *ObjectViewUseCase) YAML(obj object.Value, includeManagedFields bool) (string, error) {
	return uc.cache.YAML(obj, includeManagedFields)
}

// Render builds the drawer view of one object.
func (uc *ObjectViewUseCase) Render(ctx context.Context, req RenderRequest) (*ObjectView, error) {
	start := time.Now()
	if req.State.Mode == "" {
		req.State.Mode = DisplayStructured
	}

	kind := uc.kindOf(req.Object, req.Kind)
	view := &ObjectView{
		Title:   titleOf(req.Object),
		Kind:    kind,
		Cluster: req.Cluster,
		State:   req.State,
	}

	if req.Cluster != "" {
		cluster, err := uc.clusters.Get(ctx, req.Cluster)
		if err != nil {
			return nil, err
		}
		view.Link = uc.formatLink(cluster, req.Object, kind)
	}

	switch req.State.Mode {
	case DisplayRaw:
		out, err := uc.cache.YAML(req.Object, req.State.ShowManagedFields())
		if err != nil {
			return nil, fmt.Errorf("render yaml for %s: %w", view.Title, err)
		}
		view.YAML = out
	default:
		if normalized, ok := Normalize(req.Object); ok {
			view.Rows = Flatten(SanitizeForDisplay(normalized))
		}
	}

	renderDuration.WithLabelValues(string(req.State.Mode)).Observe(time.Since(start).Seconds())
	return view, nil
}

// RenderBatch renders several objects concurrently. Views are returned
// in request order; the first failure cancels the remaining renders.
func (uc *ObjectViewUseCase) RenderBatch(ctx context.Context, reqs []RenderRequest) ([]*ObjectView, error) {
	views := make([]*ObjectView, len(reqs))

	p := pool.New().WithMaxGoroutines(maxBatchConcurrency).WithContext(ctx).WithCancelOnError()
	for i, req := range reqs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			view, err := uc.Render(ctx, req)
			if err != nil {
				return fmt.Errorf("render object %d: %w", i, err)
			}
			views[i] = view
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// OpenDrawer starts a drawer session for the object and returns its
// first view. The drawer is opened regardless of req.State.Open.
func (uc *ObjectViewUseCase) OpenDrawer(ctx context.Context, req RenderRequest) (*ObjectView, error) {
	if req.Cluster != "" {
		if _, err := uc.clusters.Get(ctx, req.Cluster); err != nil {
			return nil, err
		}
	}

	state := req.State
	if state.Mode == "" {
		state.Mode = DisplayStructured
	}
	state.OpenDrawer()

	sess := uc.sessions.Create(identity.Subject(ctx), req.Cluster, req.Kind, req.Object, state)
	uc.log.Debug("drawer opened", "session", sess.ID, "cluster", sess.Cluster, "title", titleOf(sess.Object))
	return uc.renderSession(ctx, sess)
}

// UpdateDrawer applies a user action to a drawer session and returns
// the new view.
func (uc *ObjectViewUseCase) UpdateDrawer(ctx context.Context, id string, action DrawerAction) (*ObjectView, error) {
	if _, err := uc.ownedSession(ctx, id); err != nil {
		return nil, err
	}
	sess, err := uc.sessions.Update(id, action.Apply)
	if err != nil {
		return nil, err
	}
	return uc.renderSession(ctx, sess)
}

// GetDrawer returns the current view of a drawer session.
func (uc *ObjectViewUseCase) GetDrawer(ctx context.Context, id string) (*ObjectView, error) {
	sess, err := uc.ownedSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.renderSession(ctx, sess)
}

// DiscardDrawer forgets a drawer session.
func (uc *ObjectViewUseCase) DiscardDrawer(ctx context.Context, id string) error {
	if _, err := uc.ownedSession(ctx, id); err != nil {
		return err
	}
	return uc.sessions.Delete(id)
}

// ownedSession returns the session if the caller opened it. Sessions of
// other callers are reported as missing.
func (uc *ObjectViewUseCase) ownedSession(ctx context.Context, id string) (DrawerSession, error) {
	return uc.sessions.GetOwned(id, identity.Subject(ctx))
}

func (uc *ObjectViewUseCase) renderSession(ctx context.Context, sess DrawerSession) (*ObjectView, error) {
	view, err := uc.Render(ctx, RenderRequest{
		Cluster: sess.Cluster,
		Kind:    sess.Kind,
		Object:  sess.Object,
		State:   sess.State,
	})
	if err != nil {
		return nil, err
	}
	view.SessionID = sess.ID
	return view, nil
}

func (uc *ObjectViewUseCase) formatLink(cluster Cluster, obj object.Value, kind string) FormatResult {
	res := FormatClusterLink(uc.formatter, cluster, obj, kind)
	recordLink(cluster.DashboardApp, res)
	if res.Error != "" {
		uc.log.Warn("dashboard link not available", "cluster", cluster.Name, "app", cluster.DashboardApp, "error", res.Error)
	}
	return res
}

func (uc *ObjectViewUseCase) kindOf(obj object.Value, kind string) string {
	if kind != "" {
		return kind
	}
	return object.MetaOf(obj).Kind
}

func titleOf(obj object.Value) string {
	if name := object.MetaOf(obj).Name; name != "" {
		return name
	}
	return unknownName
}
