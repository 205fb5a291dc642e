package config

import (
	"strings"
	"time"
)

// Option describes a single configuration entry: its viper key, the
// corresponding CLI flag name, the compiled default, and a
// human-readable description shown in --help output.
type Option struct {
	Key         string
	Flag        string
	Default     any
	Description string
}

// ServerOptions defines the configuration entries available in server
// mode. Each entry is registered as a viper default and a CLI flag.
var ServerOptions = []Option{
	{Key: keyServerAddress, Flag: toFlag(keyServerAddress), Default: ":8299", Description: "Server listen address"},
	{Key: keyServerAllowedOrigins, Flag: toFlag(keyServerAllowedOrigins), Default: []string{}, Description: "Server allowed origins"},
	{Key: keyServerOIDCIssuerURL, Flag: toFlag(keyServerOIDCIssuerURL), Default: "", Description: "OIDC issuer url; authentication is disabled when empty"},
	{Key: keyServerOIDCClientID, Flag: toFlag(keyServerOIDCClientID), Default: "backstage", Description: "OIDC client id"},
	{Key: keyServerSessionTTL, Flag: toFlag(keyServerSessionTTL), Default: 30 * time.Minute, Description: "Idle time after which a drawer session is evicted"},
	{Key: keyServerSweepInterval, Flag: toFlag(keyServerSweepInterval), Default: time.Minute, Description: "Interval between drawer session sweeps"},
}

// RenderOptions defines the configuration entries shared by every
// command that renders objects.
var RenderOptions = []Option{
	{Key: keyRenderCacheSize, Flag: toFlag(keyRenderCacheSize), Default: 256, Description: "Number of rendered YAML documents kept in memory"},
	{Key: keyRenderKubeconfig, Flag: toFlag(keyRenderKubeconfig), Default: "", Description: "Kubeconfig whose contexts are added to the cluster catalogue"},
}

// toFlag converts a viper key like "server.oidc.issuer_url" into a
// CLI flag like "oidc-issuer-url" by lower-casing, replacing dots and
// underscores with hyphens, and stripping the "server-" or "render-"
// prefix.
func toFlag(key string) string {
	flag := strings.ToLower(key)
	flag = strings.ReplaceAll(flag, ".", "-")
	flag = strings.ReplaceAll(flag, "_", "-")
	flag = strings.TrimPrefix(flag, "server-")
	flag = strings.TrimPrefix(flag, "render-")
	return flag
}
