package auth

import (
	"context"
)

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the request session, or nil for anonymous requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// StoreID returns the store of the request session, empty when there is none.
func StoreID(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.StoreID
	}
	return ""
}
