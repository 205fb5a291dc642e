package config

import (
	"github.com/google/wire"

	"github.com/azhar-beg/backstage/internal/core"
)

// ProviderSet is the Wire provider set for values derived from a
// loaded *Config.
var ProviderSet = wire.NewSet(
	ProvideCacheSize,
	ProvideSessionTTL,
)

// ProvideCacheSize exposes render.cache_size to the core providers.
func ProvideCacheSize(c *Config) core.CacheSize {
	return core.CacheSize(c.RenderCacheSize())
}

// ProvideSessionTTL exposes server.session_ttl to the core providers.
func ProvideSessionTTL(c *Config) core.SessionTTL {
	return core.SessionTTL(c.ServerSessionTTL())
}
