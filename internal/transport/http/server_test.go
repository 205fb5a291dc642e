package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/authn"
)

func testAuth() *authn.Middleware {
	return authn.NewMiddleware(func(_ context.Context, r *http.Request) (any, error) {
		if r.Header.Get("Authorization") == "" {
			return nil, authn.Errorf("missing bearer token")
		}
		return struct{}{}, nil
	})
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNewServer_PublicPathsBypassAuth(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(
		WithAddress("127.0.0.1:0"),
		WithAuthMiddleware(testAuth()),
		WithAllowedOrigins([]string{"https://portal.example.com"}),
		WithPublicPaths([]string{"public", ""}),
		WithMount(func(mux *http.ServeMux) error {
			mux.HandleFunc("/public", okHandler)
			mux.HandleFunc("/private", okHandler)
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	t.Run("public path without token is allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})

	t.Run("private path without token is blocked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code == http.StatusOK {
			t.Fatalf("expected non-200 status for private path without token, got %d", rec.Code)
		}
	})

	t.Run("private path with token is allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer test-token")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})
}

func TestNewServer_AuthRequiresAllowedOrigins(t *testing.T) {
	t.Parallel()

	_, err := NewServer(WithAddress("127.0.0.1:0"), WithAuthMiddleware(testAuth()))
	if err == nil || !strings.Contains(err.Error(), "allowed origins") {
		t.Fatalf("expected allowed origins error, got %v", err)
	}
}

func TestNewServer_LimitsBodySize(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(
		WithAddress("127.0.0.1:0"),
		WithMaxBodyBytes(8),
		WithMount(func(mux *http.ServeMux) error {
			mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
				if _, err := io.ReadAll(r.Body); err != nil {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	for body, want := range map[string]int{
		"small":                 http.StatusOK,
		"much too large a body": http.StatusRequestEntityTooLarge,
	} {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("body %q: expected %d, got %d", body, want, rec.Code)
		}
	}
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(
		WithAddress("127.0.0.1:0"),
		WithMount(func(mux *http.ServeMux) error {
			mux.HandleFunc("/ping", okHandler)
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()

	resp, err := http.Get("http://" + srv.listener.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}
