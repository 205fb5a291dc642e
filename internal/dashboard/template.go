package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/sync/singleflight"

	"github.com/azhar-beg/backstage/internal/core"
)

// templateParam is the dashboardParameters key holding the URL
// template of the "custom" dashboard application.
const templateParam = "urlTemplate"

// templateData is the value a custom URL template executes against.
type templateData struct {
	Cluster      string
	DashboardURL string
	Kind         string
	APIVersion   string
	Name         string
	Namespace    string
	UID          string
	Parameters   map[string]any
	Object       any
}

var templateFuncs = template.FuncMap{
	"lower":       strings.ToLower,
	"pathEscape":  url.PathEscape,
	"queryEscape": url.QueryEscape,
}

// templateFormatter renders operator supplied URL templates. Parsed
// templates are cached by source text and concurrent first parses of
// the same source are deduplicated.
type templateFormatter struct {
	mu      sync.RWMutex
	parsed  map[string]*template.Template
	flights singleflight.Group
}

func newTemplateFormatter() *templateFormatter {
	return &templateFormatter{parsed: make(map[string]*template.Template)}
}

func (f *templateFormatter) format(opts core.LinkOptions) (*url.URL, error) {
	src, ok := lookupParam(opts.Cluster.DashboardParameters, templateParam).(string)
	if !ok || src == "" {
		return nil, fmt.Errorf("custom dashboard requires a %q of type string in the dashboardParameters option", templateParam)
	}

	tmpl, err := f.template(src)
	if err != nil {
		return nil, err
	}

	data := templateData{
		Cluster:      opts.Cluster.Name,
		DashboardURL: strings.TrimSuffix(opts.Cluster.DashboardURL, "/"),
		Kind:         opts.Kind,
		APIVersion:   opts.Meta.APIVersion,
		Name:         opts.Meta.Name,
		Namespace:    opts.Meta.Namespace,
		UID:          opts.Meta.UID,
		Parameters:   opts.Cluster.DashboardParameters,
		Object:       opts.Object.ToAny(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render url template: %w", err)
	}

	raw := strings.TrimSpace(buf.String())
	if raw == "" {
		return nil, errors.New("url template rendered an empty link")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("url template rendered an invalid link: %w", err)
	}
	if u.IsAbs() {
		return u, nil
	}

	base, err := dashboardURL(opts)
	if err != nil {
		return nil, fmt.Errorf("url template rendered a relative link: %w", err)
	}
	return base.ResolveReference(u), nil
}

func (f *templateFormatter) template(src string) (*template.Template, error) {
	f.mu.RLock()
	tmpl, ok := f.parsed[src]
	f.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	v, err, _ := f.flights.Do(src, func() (any, error) {
		tmpl, err := template.New("dashboard-url").
			Option("missingkey=error").
			Funcs(templateFuncs).
			Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse url template: %w", err)
		}

		f.mu.Lock()
		f.parsed[src] = tmpl
		f.mu.Unlock()

		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}
