package auth

import (
	"context"
	"time"
)

// Session is the authenticated state of one request. It is decoded once
// from the request's token and carried in the context; handlers never look
// at cookies or headers themselves.
type Session struct {
	Claims *Claims
	Token  string
}

// UserID returns the session's user ID, or 0 when unauthenticated.
func (s *Session) UserID() int64 {
	if s == nil || s.Claims == nil {
		return 0
	}
	return s.Claims.UserID
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s *Session) Authenticated() bool {
	return s.UserID() != 0
}

// ExpiresAt returns when the session's token expires.
func (s *Session) ExpiresAt() time.Time {
	if s == nil || s.Claims == nil || s.Claims.ExpiresAt == nil {
		return time.Time{}
	}
	return s.Claims.ExpiresAt.Time
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
