// Package middleware provides HTTP middleware for the backstage
// server, including OIDC-based authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/authn"
	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/azhar-beg/backstage/internal/identity"
)

// idTokenClaims holds the optional claims read from an ID token.
type idTokenClaims struct {
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

// NewOIDC creates a ConnectRPC authentication middleware that verifies
// incoming Bearer tokens against the given OIDC issuer and client ID.
// On success the caller is attached to the request as an
// identity.UserInfo.
func NewOIDC(issuer, clientID string) (*authn.Middleware, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	return authn.NewMiddleware(authenticate(verifier)), nil
}

// tokenVerifier is the subset of *oidc.IDTokenVerifier used here.
type tokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

func authenticate(verifier tokenVerifier) authn.AuthFunc {
	return func(ctx context.Context, r *http.Request) (any, error) {
		token, found := authn.BearerToken(r)
		if !found || token == "" {
			return nil, authn.Errorf("missing or invalid bearer token")
		}

		idToken, err := verifier.Verify(ctx, token)
		if err != nil {
			return nil, authn.Errorf("invalid token: %s", err)
		}

		var claims idTokenClaims
		if err := idToken.Claims(&claims); err != nil {
			return nil, authn.Errorf("parse token claims: %s", err)
		}

		return identity.UserInfo{
			Subject: idToken.Subject,
			Email:   claims.Email,
			Groups:  claims.Groups,
		}, nil
	}
}
