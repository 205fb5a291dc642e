package dashboard

// apps returns the registered application names.
func (r *Registry) apps() []string {
	apps := make([]string, 0, len(r.formatters))
	for app := range r.formatters {
		apps = append(apps, app)
	}
	return apps
}

// cached reports how many distinct templates have been parsed.
func (f *templateFormatter) cached() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.parsed)
}
