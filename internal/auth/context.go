package auth

import "context"

type identityContextKey struct{}

// ContextWithIdentity stores the resolved user identity in context.
func ContextWithIdentity(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, identityContextKey{}, user)
}

// IdentityFromContext extracts the resolved identity, nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(identityContextKey{}).(*User)
	return user
}
