package eventbus

import "context"

// DefaultEmitterID is the id of the emitter every context targets
// until it selects another one.
const DefaultEmitterID = "default"

// activeKey is the private context key for the active emitter id.
type activeKey struct{}

// WithActive returns a context whose register/publish/unsubscribe
// convenience calls target the emitter registered under id.
// The selection travels with the context value: it is visible to
// everything downstream of this context and to nothing else, which is
// what makes concurrent callers independent of each other.
func WithActive(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, activeKey{}, id)
}

// ActiveID returns the context's selected emitter id,
// or DefaultEmitterID if none was ever selected.
func ActiveID(ctx context.Context) string {
	if id, ok := ctx.Value(activeKey{}).(string); ok && id != "" {
		return id
	}
	return DefaultEmitterID
}
