package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azhar-beg/backstage/internal/cmd/server"
	"github.com/azhar-beg/backstage/internal/config"
)

type ServerInjector func() (*server.Server, func(), error)

func NewServerCommand(conf *config.Config, newServer ServerInjector) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "server",
		Short:   "Start server that provides gRPC and HTTP endpoints for the object view service",
		Example: "backstage server --address=:8299 --oidc-issuer-url=https://sso.example.com/realms/ops",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, cleanup, err := newServer()
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			defer cleanup()

			cfg := server.Config{
				Address:        conf.ServerAddress(),
				AllowedOrigins: conf.ServerAllowedOrigins(),
				OIDCIssuerURL:  conf.ServerOIDCIssuerURL(),
				OIDCClientID:   conf.ServerOIDCClientID(),
			}

			return srv.Run(cmd.Context(), cfg)
		},
	}

	if err := conf.BindFlags(cmd.Flags(), config.ServerOptions); err != nil {
		return nil, err
	}

	return cmd, nil
}
