// Package server implements the server runtime that serves the object
// view API and runs its background sweepers.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/grpchealth"
	"connectrpc.com/grpcreflect"

	"github.com/azhar-beg/backstage/internal/core"
	"github.com/azhar-beg/backstage/internal/middleware"
	"github.com/azhar-beg/backstage/internal/transport"
	"github.com/azhar-beg/backstage/internal/transport/http"
)

// Config holds the runtime parameters for a Server.
type Config struct {
	Address        string
	AllowedOrigins []string
	OIDCIssuerURL  string
	OIDCClientID   string
}

// Server binds the HTTP server (gRPC + Connect + metrics) and the
// background listeners, running them in parallel via transport.Serve.
type Server struct {
	handler    *Handler
	background BackgroundListeners
	version    core.Version
	log        *slog.Logger
}

// NewServer returns a Server wired to the given handler and background
// listeners.
func NewServer(handler *Handler, background BackgroundListeners, version core.Version) *Server {
	return &Server{
		handler:    handler,
		background: background,
		version:    version,
		log:        slog.Default().With("component", "server"),
	}
}

// Run starts every listener and blocks until ctx is cancelled or an
// unrecoverable error occurs. Health and reflection endpoints are
// public. Authentication is enabled only when an OIDC issuer is
// configured.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	opts := []http.ServerOption{
		http.WithAddress(cfg.Address),
		http.WithAllowedOrigins(cfg.AllowedOrigins),
		http.WithPublicPaths(publicPaths()),
		http.WithMount(s.handler.Mount),
	}

	if cfg.OIDCIssuerURL != "" {
		oidc, err := middleware.NewOIDC(cfg.OIDCIssuerURL, cfg.OIDCClientID)
		if err != nil {
			return fmt.Errorf("failed to create OIDC middleware: %w", err)
		}
		opts = append(opts, http.WithAuthMiddleware(oidc))
	} else {
		s.log.Warn("authentication is disabled; set --oidc-issuer-url to require bearer tokens")
	}

	httpSrv, err := http.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	s.log.Info("starting backstage", "version", s.version)

	listeners := make([]transport.Listener, 0, len(s.background)+1)
	listeners = append(listeners, httpSrv)
	listeners = append(listeners, s.background...)
	return transport.Serve(ctx, listeners...)
}

func publicPaths() []string {
	return []string{
		"/" + grpchealth.HealthV1ServiceName + "/Check",
		"/" + grpchealth.HealthV1ServiceName + "/Watch",
		"/" + grpcreflect.ReflectV1ServiceName + "/ServerReflectionInfo",
		"/" + grpcreflect.ReflectV1AlphaServiceName + "/ServerReflectionInfo",
		"/metrics",
	}
}
