// Package audit captures field-level change records for every entity written
// inside a unit of work.
package audit

import "context"

type actorKey struct{}

// Actor identifies who performed a mutation and from where. It is supplied by
// the transport layer.
type Actor struct {
	UserID    *uint
	Email     string
	IPAddress string
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, or the zero Actor for
// system initiated work.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
