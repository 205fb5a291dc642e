package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/azhar-beg/backstage/internal/core"
)

// Config wraps a viper instance and exposes typed getters.
type Config struct {
	v *viper.Viper
}

// New loads configuration from the default file locations and the
// environment. A missing config file is not an error.
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/backstage/")
	return load(v)
}

// NewFromFile loads configuration from an explicit file path.
func NewFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// default values
	for _, o := range ServerOptions {
		v.SetDefault(o.Key, o.Default)
	}
	for _, o := range RenderOptions {
		v.SetDefault(o.Key, o.Default)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// load config from environment variables
	v.SetEnvPrefix("BACKSTAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}, nil
}

// BindFlags registers options as flags on fs and binds them to viper so
// that flags take precedence over every other source.
func (c *Config) BindFlags(fs *pflag.FlagSet, options []Option) error {
	for _, o := range options {
		switch v := o.Default.(type) {
		case string:
			fs.String(o.Flag, v, o.Description)
		case int:
			fs.Int(o.Flag, v, o.Description)
		case bool:
			fs.Bool(o.Flag, v, o.Description)
		case []string:
			fs.StringSlice(o.Flag, v, o.Description)
		case time.Duration:
			fs.Duration(o.Flag, v, o.Description)
		default:
			return fmt.Errorf("unsupported flag type for key: %s", o.Key)
		}

		if err := c.v.BindPFlag(o.Key, fs.Lookup(o.Flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", o.Flag, err)
		}
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return c.v.GetString(keyServerAddress) // BACKSTAGE_SERVER_ADDRESS
}

func (c *Config) ServerAllowedOrigins() []string {
	return c.v.GetStringSlice(keyServerAllowedOrigins) // BACKSTAGE_SERVER_ALLOWED_ORIGINS
}

func (c *Config) ServerOIDCIssuerURL() string {
	return c.v.GetString(keyServerOIDCIssuerURL) // BACKSTAGE_SERVER_OIDC_ISSUER_URL
}

func (c *Config) ServerOIDCClientID() string {
	return c.v.GetString(keyServerOIDCClientID) // BACKSTAGE_SERVER_OIDC_CLIENT_ID
}

func (c *Config) ServerSessionTTL() time.Duration {
	return c.v.GetDuration(keyServerSessionTTL) // BACKSTAGE_SERVER_SESSION_TTL
}

func (c *Config) ServerSweepInterval() time.Duration {
	return c.v.GetDuration(keyServerSweepInterval) // BACKSTAGE_SERVER_SWEEP_INTERVAL
}

func (c *Config) RenderCacheSize() int {
	return c.v.GetInt(keyRenderCacheSize) // BACKSTAGE_RENDER_CACHE_SIZE
}

func (c *Config) RenderKubeconfig() string {
	return c.v.GetString(keyRenderKubeconfig) // BACKSTAGE_RENDER_KUBECONFIG
}

// Clusters decodes the cluster catalogue. Entries without a name are
// rejected. Viper lower-cases map keys, so dashboardParameters are
// re-read from the config file to keep keys such as projectId intact.
func (c *Config) Clusters() ([]core.Cluster, error) {
	var clusters []core.Cluster
	if err := c.v.UnmarshalKey(keyClusters, &clusters); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", keyClusters, err)
	}
	for i, cl := range clusters {
		if cl.Name == "" {
			return nil, fmt.Errorf("%s[%d]: name is required", keyClusters, i)
		}
	}

	params, err := c.fileDashboardParameters()
	if err != nil {
		return nil, err
	}
	for i := range clusters {
		if p, ok := params[clusters[i].Name]; ok {
			clusters[i].DashboardParameters = p
		}
	}
	return clusters, nil
}

// fileClusters is the subset of the config file decoded with its
// original key case.
type fileClusters struct {
	Clusters []struct {
		Name                string         `yaml:"name"`
		DashboardParameters map[string]any `yaml:"dashboardParameters"`
	} `yaml:"clusters"`
}

// fileDashboardParameters returns the dashboardParameters of every
// cluster in the config file, by cluster name. It returns nothing when
// no config file was read.
func (c *Config) fileDashboardParameters() (map[string]map[string]any, error) {
	path := c.v.ConfigFileUsed()
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw fileClusters
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", keyClusters, err)
	}

	out := make(map[string]map[string]any, len(raw.Clusters))
	for _, cl := range raw.Clusters {
		if cl.DashboardParameters != nil {
			out[cl.Name] = cl.DashboardParameters
		}
	}
	return out, nil
}
