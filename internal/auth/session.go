// internal/auth/session.go
package auth

import (
	"context"
	"strings"
)

// Identity is the authenticated actor of a request.
type Identity struct {
	ID    string
	Email string
}

// EmailDomain returns the lower-cased part after the last "@", or "".
func (i Identity) EmailDomain() string {
	at := strings.LastIndexByte(i.Email, '@')
	if at < 0 || at == len(i.Email)-1 {
		return ""
	}
	return strings.ToLower(i.Email[at+1:])
}

type identityKey struct{}

// WithUser returns a copy of ctx carrying the identity.
func WithUser(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// CurrentUser returns the identity stored by WithUser.
func CurrentUser(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || identity.ID == "" {
		return Identity{}, false
	}
	return identity, true
}
