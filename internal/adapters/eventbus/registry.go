package eventbus

import (
	"context"
	"sync"

	"PulseBus/internal/core/ports"

	"github.com/rs/zerolog"
)

// Registry is the process-wide id-to-emitter store.
// Entries are created lazily on first reference and never removed.
type Registry struct {
	log  zerolog.Logger
	base *zerolog.Logger // handed to every emitter we create

	mu       sync.Mutex
	emitters map[string]*Emitter
}

var _ ports.Registry = (*Registry)(nil)

// NewRegistry creates a registry holding the "default" emitter.
func NewRegistry(baseLogger *zerolog.Logger) *Registry {
	r := &Registry{
		log:      baseLogger.With().Str("component", "emitter_registry").Logger(),
		base:     baseLogger,
		emitters: make(map[string]*Emitter),
	}
	r.emitters[DefaultEmitterID] = NewEmitter(DefaultEmitterID, baseLogger)
	return r
}

// GetOrCreate returns the emitter registered under id, creating an
// empty one on first reference. Exactly one emitter ever exists per
// id, even under concurrent first access: the whole check-and-insert
// happens under the registry lock.
func (r *Registry) GetOrCreate(id string) ports.Emitter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if em, ok := r.emitters[id]; ok {
		return em
	}

	em := NewEmitter(id, r.base)
	r.emitters[id] = em
	r.log.Info().Str("emitter_id", id).Msg("Created new emitter")
	return em
}

// Active resolves the context's active emitter id and get-or-creates
// that emitter.
func (r *Registry) Active(ctx context.Context) ports.Emitter {
	return r.GetOrCreate(ActiveID(ctx))
}

// Select binds id as the active emitter on the returned context,
// creating the emitter atomically if it does not exist yet.
func (r *Registry) Select(ctx context.Context, id string) (context.Context, ports.Emitter) {
	return WithActive(ctx, id), r.GetOrCreate(id)
}

// Subscribe registers a handler on the context's active emitter.
func (r *Registry) Subscribe(ctx context.Context, event string, handler ports.Handler) {
	r.Active(ctx).On(event, handler)
}

// SubscribeOnce registers a fire-once handler on the active emitter.
func (r *Registry) SubscribeOnce(ctx context.Context, event string, handler ports.Handler) error {
	return r.Active(ctx).Once(event, handler)
}

// SubscribeTimes registers a fire-count-times handler on the active emitter.
func (r *Registry) SubscribeTimes(ctx context.Context, event string, count uint, handler ports.Handler) error {
	return r.Active(ctx).Times(event, count, handler)
}

// Publish emits an event on the context's active emitter.
func (r *Registry) Publish(ctx context.Context, event string, args ...any) error {
	return r.Active(ctx).Emit(event, args...)
}

// UnsubscribeAll removes the event's handlers on the active emitter.
func (r *Registry) UnsubscribeAll(ctx context.Context, event string) {
	r.Active(ctx).Off(event)
}
