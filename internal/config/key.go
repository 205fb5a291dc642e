// Package config provides unified configuration loading from files,
// environment variables, and CLI flags using viper and pflag.
//
// Resolution order (highest wins):
//  1. CLI flags
//  2. Environment variables (prefix BACKSTAGE_)
//  3. Config file (config.yaml in . or /etc/backstage/)
//  4. Compiled defaults
package config

// Viper keys for server-mode configuration.
const (
	keyServerAddress        = "server.address"
	keyServerAllowedOrigins = "server.allowed_origins"
	keyServerOIDCIssuerURL  = "server.oidc.issuer_url"
	keyServerOIDCClientID   = "server.oidc.client_id"
	keyServerSessionTTL     = "server.session_ttl"
	keyServerSweepInterval  = "server.sweep_interval"
)

// Viper keys for object rendering.
const (
	keyRenderCacheSize  = "render.cache_size"
	keyRenderKubeconfig = "render.kubeconfig"
)

// keyClusters holds the cluster catalogue. It is a list of objects and
// is read from the config file only.
const keyClusters = "clusters"
