// Package auth carries the signed-in household session through request
// contexts and issues the session cookie token.
package auth

import (
	"context"

	"github.com/dukerupert/homebase/internal/model"
)

type contextKey struct{}

// Session identifies the device that unlocked the app with the shared PIN
// and the member currently using it.
type Session struct {
	ID     string
	Member model.Member
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// Member returns the active member, or the empty member outside a session.
func Member(ctx context.Context) model.Member {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.Member
}
