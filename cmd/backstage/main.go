// Package main is the entry point for the backstage binary. It
// supports two subcommands:
//
//   - server: serves the object view API over gRPC and Connect
//   - render: renders manifests from a file or stdin as yaml, a
//     key/value table or dashboard links
//
// Dependencies are assembled via Google Wire; see wire.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/azhar-beg/backstage/internal/cmd"
	"github.com/azhar-beg/backstage/internal/cmd/server"
	"github.com/azhar-beg/backstage/internal/config"
	"github.com/azhar-beg/backstage/internal/core"
)

// version is injected at build time via -ldflags
// (e.g. -ldflags "-X main.version=v1.2.3").
var version = "devel"

// configEnvVar points at a config file outside the default search
// paths.
const configEnvVar = "BACKSTAGE_CONFIG"

func main() {
	// Cancel on SIGINT (Ctrl+C) or SIGTERM (container runtime).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Cobra is configured with SilenceErrors: true, so we
		// print the error here for consistent formatting.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires all dependencies and executes the root Cobra command.
func run(ctx context.Context) error {
	rootCmd, cleanup, err := wireCmd()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	return rootCmd.ExecuteContext(ctx)
}

// newCmd is a Wire provider that constructs the root Cobra command and
// registers the server and render subcommands. Injectors run lazily so
// that flags are bound before the cluster catalogue is loaded.
func newCmd(conf *config.Config) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:           "backstage",
		Short:         "Backstage: inspect Kubernetes objects and jump to their cluster dashboards.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Catalogue and cache options apply to every subcommand.
	if err := conf.BindFlags(c.PersistentFlags(), config.RenderOptions); err != nil {
		return nil, err
	}

	v := core.Version(version)

	serverCmd, err := cmd.NewServerCommand(conf, func() (*server.Server, func(), error) {
		return wireServer(v, conf)
	})
	if err != nil {
		return nil, err
	}

	renderCmd := cmd.NewRenderCommand(func() (*core.ObjectViewUseCase, func(), error) {
		return wireRender(conf)
	})

	c.AddCommand(serverCmd, renderCmd)

	return c, nil
}

// provideConfig is a Wire provider that loads the configuration from
// $BACKSTAGE_CONFIG when set and from the default search paths
// otherwise.
func provideConfig() (*config.Config, error) {
	if path := os.Getenv(configEnvVar); path != "" {
		return config.NewFromFile(path)
	}
	return config.New()
}
