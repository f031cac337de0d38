package shared

import "context"

// Actor identifies who performs an operation. It is built from the
// authenticated request and passed explicitly into every service call.
type Actor struct {
	UserID uint
	Role   string
}

// NewActor creates an actor
func NewActor(userID uint, role string) Actor {
	return Actor{UserID: userID, Role: role}
}

// SystemActor is used for background work with no authenticated user
func SystemActor() Actor {
	return Actor{Role: "System"}
}

// HasRole reports whether the actor holds one of the given roles
func (a Actor) HasRole(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether the actor carries a user id
func (a Actor) IsAuthenticated() bool {
	return a.UserID != 0
}

type actorKey struct{}

// WithActor stores the actor in the context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in the context, if any
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
