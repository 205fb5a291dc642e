// Package identity carries the authenticated caller through request
// contexts.
package identity

import (
	"context"

	"connectrpc.com/authn"
)

// UserInfo holds the authenticated user's identity and group memberships.
type UserInfo struct {
	Subject string
	Email   string
	Groups  []string
}

type contextKey struct{}

var userInfoKey = contextKey{}

// GetUserInfo retrieves the caller from the context. Identities stored
// with WithUserInfo take precedence over the one attached by the authn
// middleware.
func GetUserInfo(ctx context.Context) (UserInfo, bool) {
	if info, ok := ctx.Value(userInfoKey).(UserInfo); ok {
		return info, true
	}
	info, ok := authn.GetInfo(ctx).(UserInfo)
	return info, ok
}

// WithUserInfo stores a UserInfo in the context.
func WithUserInfo(ctx context.Context, info UserInfo) context.Context {
	return context.WithValue(ctx, userInfoKey, info)
}

// Subject returns the caller's subject, or the empty string for
// anonymous requests.
func Subject(ctx context.Context) string {
	info, _ := GetUserInfo(ctx)
	return info.Subject
}
