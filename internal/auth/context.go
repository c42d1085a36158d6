package auth

import (
	"context"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type contextKey string

const principalKey = contextKey("principal")

// Principal is the authenticated caller of a request.
type Principal struct {
	User    models.User
	Session models.Session
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// UserID returns the caller's id, or nil for anonymous requests.
func UserID(ctx context.Context) *int {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return nil
	}
	id := p.User.ID
	return &id
}
