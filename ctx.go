package auth

import "context"

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentityContext sets the AuthenticatedIdentity in the given context.
func WithIdentityContext(ctx context.Context, identity *AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the identity attached by the middleware, if any.
// Handlers behind optional auth should treat a false return as an anonymous
// request, not an error.
func IdentityFromContext(ctx context.Context) (*AuthenticatedIdentity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(*AuthenticatedIdentity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
