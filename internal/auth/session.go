package auth

import "context"

// Session is the caller's authentication state, passed explicitly to workflows.
type Session struct {
	Token         string
	Authenticated bool
}

func Anonymous() Session {
	return Session{}
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

// FromContext returns the session stored by the auth middleware, or an anonymous one.
func FromContext(ctx context.Context) Session {
	if session, ok := ctx.Value(sessionCtxKey{}).(Session); ok {
		return session
	}
	return Anonymous()
}

const (
	// TokenHeader carries the session token for non-browser clients.
	TokenHeader = "X-FITCOACH-TOKEN"
	// SessionCookie carries the session token for browsers.
	SessionCookie = "fitcoach_session"
)
