package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches the request's session so handlers further down
// the chain can read and mutate it before the middleware commits.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the session attached by the middleware, or nil
// when the request carries none.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
