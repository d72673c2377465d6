// Package actor carries the authenticated principal of a request through
// context.Context. The audit recorder resolves "who did this" from here;
// an empty context means the mutation is anonymous and will not be
// audit-logged.
package actor

import (
	"context"

	"github.com/sigat/asset-registry/pkg/models"
)

// ctxKey is an unexported type used as the context key for Actor.
type ctxKey struct{}

// Actor is the authenticated principal performing a request.
type Actor struct {
	ID       uint
	Username string
	Role     models.UserRole
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// WithActor returns a new context with the given actor attached.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext retrieves the actor from the context. Returns the zero
// value and false when no actor is set.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

// UsernameFromContext returns the actor's username, or "" when the
// request is anonymous.
func UsernameFromContext(ctx context.Context) string {
	a, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return a.Username
}
