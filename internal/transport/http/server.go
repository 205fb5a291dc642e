// Package http serves the object view API over HTTP/1.1 and
// unencrypted HTTP/2, wrapping the mounted routes with CORS, optional
// bearer authentication, a request body limit and access logging.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/authn"
	connectcors "connectrpc.com/cors"
	"github.com/rs/cors"
)

// MountFunc registers routes on the server's mux.
type MountFunc func(mux *http.ServeMux) error

// ServerOption configures a Server.
type ServerOption func(*Server)

// defaultMaxBodyBytes bounds request bodies. Batches of large custom
// resources stay well below it.
const defaultMaxBodyBytes = 4 << 20

// corsMaxAge is how long browsers may cache a preflight response, in
// seconds.
const corsMaxAge = 2 * 60 * 60

// Server implements transport.Listener.
type Server struct {
	address        string
	listener       net.Listener
	mount          MountFunc
	auth           *authn.Middleware
	publicPaths    map[string]struct{}
	allowedOrigins []string
	maxBodyBytes   int64
	log            *slog.Logger

	srv *http.Server
}

// WithAddress sets the listen address. It is ignored when WithListener
// is given.
func WithAddress(address string) ServerOption {
	return func(s *Server) { s.address = address }
}

// WithListener serves on ln instead of listening on the address.
func WithListener(ln net.Listener) ServerOption {
	return func(s *Server) { s.listener = ln }
}

func WithMount(mount MountFunc) ServerOption {
	return func(s *Server) { s.mount = mount }
}

// WithAuthMiddleware requires authentication on every path that is not
// public.
func WithAuthMiddleware(m *authn.Middleware) ServerOption {
	return func(s *Server) { s.auth = m }
}

// WithPublicPaths lists exact request paths served without
// authentication. A missing leading slash is added.
func WithPublicPaths(paths []string) ServerOption {
	return func(s *Server) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if s.publicPaths == nil {
				s.publicPaths = make(map[string]struct{}, len(paths))
			}
			s.publicPaths["/"+strings.TrimPrefix(p, "/")] = struct{}{}
		}
	}
}

// WithAllowedOrigins restricts CORS to origins. Without it every
// origin is allowed, which NewServer refuses when authentication is
// on.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithMaxBodyBytes limits request bodies to n bytes; n <= 0 disables
// the limit.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) { s.maxBodyBytes = n }
}

func WithHTTPLogger(log *slog.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// NewServer validates the options, mounts the routes and binds the
// listener. The server does not accept connections until Start.
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		address:      ":8299",
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default().With("component", "http-server")
	}

	if s.auth != nil && len(s.allowedOrigins) == 0 {
		return nil, errors.New("http server: allowed origins must be configured when authentication is enabled; " +
			"set --allowed-origins or BACKSTAGE_SERVER_ALLOWED_ORIGINS")
	}

	mux := http.NewServeMux()
	if s.mount != nil {
		if err := s.mount(mux); err != nil {
			return nil, fmt.Errorf("mount routes: %w", err)
		}
	}

	if s.listener == nil {
		ln, err := net.Listen("tcp", s.address)
		if err != nil {
			return nil, fmt.Errorf("http listen %q: %w", s.address, err)
		}
		s.listener = ln
	}

	protocols := new(http.Protocols)
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)

	s.srv = &http.Server{
		Addr:              s.listener.Addr().String(),
		Handler:           s.chain(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		MaxHeaderBytes:    8 << 10,
		Protocols:         protocols,
	}
	return s, nil
}

// Handler returns the full middleware chain, for tests that do not
// need a live listener.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Stop is called. Request contexts derive from ctx.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	s.log.Info("starting",
		"address", s.listener.Addr().String(),
		"auth", s.auth != nil,
		"public_paths", len(s.publicPaths),
		"allowed_origins", s.allowedOrigins,
		"max_body_bytes", s.maxBodyBytes,
	)

	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http serve: %w", err)
}

// Stop drains in-flight requests until ctx expires, then closes every
// connection.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed, forcing close", "error", err)
		return s.srv.Close()
	}
	return nil
}

// chain wraps mux, outermost first: CORS, access log, auth, body limit.
func (s *Server) chain(mux *http.ServeMux) http.Handler {
	var h http.Handler = mux
	if s.maxBodyBytes > 0 {
		h = http.MaxBytesHandler(h, s.maxBodyBytes)
	}
	if s.auth != nil {
		h = s.withAuth(h)
	}
	h = s.withAccessLog(h)
	return s.withCORS(h)
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	protected := s.auth.Wrap(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, public := s.publicPaths[r.URL.Path]; public {
			next.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	if len(s.allowedOrigins) == 0 {
		return cors.AllowAll().Handler(next)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   connectcors.AllowedMethods(),
		AllowedHeaders:   connectcors.AllowedHeaders(),
		ExposedHeaders:   connectcors.ExposedHeaders(),
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}).Handler(next)
}
