package ports

import "context"

// Args is the ordered, type-erased argument list of a single emission.
// Position matters: handlers match arguments against their declared
// signature by index.
type Args []any

// Handler is a function that consumes one published argument list.
// A returned error is a contract violation (the published arguments do
// not match the signature the handler declared at registration time).
// Runtime panics inside the handler body are the emitter's problem,
// not the handler's: the emitter recovers and logs them.
type Handler func(args Args) error

// Emitter is our in-process pub/sub unit: a named container of
// event-name to handler-list mappings.
type Emitter interface {
	// ID returns the registry id this emitter was created under.
	ID() string

	// On registers a handler for an event. Handlers fire in
	// registration order, after all previously registered handlers.
	On(event string, handler Handler)

	// Once registers a handler that fires on the first emission only.
	Once(event string, handler Handler) error

	// Times registers a handler that fires on the first `count`
	// emissions, then removes the event's handlers.
	// count must be at least 1.
	Times(event string, count uint, handler Handler) error

	// Emit synchronously invokes every handler registered for the
	// event, in order, on the calling goroutine.
	// Returns ErrNoListeners (wrapped) when nothing is registered,
	// or a *ContractViolationError when a typed handler rejects the
	// argument list.
	Emit(event string, args ...any) error

	// Off removes every handler registered for the event.
	// It is a no-op if the event has none.
	Off(event string)

	// ListenerCount reports how many handlers the event currently has.
	ListenerCount(event string) int

	// Events lists the event names that currently have handlers.
	Events() []string
}

// Registry is the process-wide store of emitters keyed by id.
// The context-taking operations route through the calling context's
// active emitter (see the eventbus adapter's WithActive).
type Registry interface {
	// GetOrCreate returns the emitter registered under id, creating
	// an empty one if this is the first reference.
	GetOrCreate(id string) Emitter

	// Active resolves the calling context's active emitter id and
	// get-or-creates that emitter.
	Active(ctx context.Context) Emitter

	// Select binds id as the active emitter on the returned context,
	// creating the emitter if it does not exist yet.
	Select(ctx context.Context, id string) (context.Context, Emitter)

	// Convenience operations against the active emitter.
	Subscribe(ctx context.Context, event string, handler Handler)
	SubscribeOnce(ctx context.Context, event string, handler Handler) error
	SubscribeTimes(ctx context.Context, event string, count uint, handler Handler) error
	Publish(ctx context.Context, event string, args ...any) error
	UnsubscribeAll(ctx context.Context, event string)
}
