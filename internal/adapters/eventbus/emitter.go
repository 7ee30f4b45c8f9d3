package eventbus

import (
	"errors"
	"fmt"
	"sync"

	"PulseBus/internal/core/domain"
	"PulseBus/internal/core/ports"

	"github.com/rs/zerolog"
)

// entry pairs a subscription slot with the handler it wraps.
type entry struct {
	sub     *domain.Subscription
	handler ports.Handler
}

// Emitter implements the ports.Emitter interface: an in-memory
// event-name to handler-list table under a single coarse RWMutex.
type Emitter struct {
	id  string
	log zerolog.Logger

	mu     sync.RWMutex
	events map[string][]*entry
}

var _ ports.Emitter = (*Emitter)(nil)

// NewEmitter creates a new, empty emitter.
func NewEmitter(id string, baseLogger *zerolog.Logger) *Emitter {
	return &Emitter{
		id: id,
		log: baseLogger.With().
			Str("component", "emitter").
			Str("emitter_id", id).
			Logger(),
		events: make(map[string][]*entry),
	}
}

// ID returns the registry id this emitter was created under.
func (e *Emitter) ID() string {
	return e.id
}

// On registers a handler for an event, after all previously
// registered handlers for that event.
func (e *Emitter) On(event string, handler ports.Handler) {
	e.add(event, domain.NewSubscription(event), handler)
}

// Once registers a handler that fires on the first emission only.
func (e *Emitter) Once(event string, handler ports.Handler) error {
	return e.Times(event, 1, handler)
}

// Times registers a handler that fires on the first count emissions.
// The emission that exhausts the budget removes the event's whole
// handler list (see Emit).
func (e *Emitter) Times(event string, count uint, handler ports.Handler) error {
	if count == 0 {
		return fmt.Errorf("event %q: %w", event, ports.ErrZeroCount)
	}
	e.add(event, domain.NewCountedSubscription(event, count), handler)
	return nil
}

func (e *Emitter) add(event string, sub *domain.Subscription, handler ports.Handler) {
	e.mu.Lock()
	e.events[event] = append(e.events[event], &entry{sub: sub, handler: handler})
	e.mu.Unlock()

	e.log.Info().
		Str("event", event).
		Str("subscription_id", sub.ID.String()).
		Bool("counted", sub.Counted()).
		Msg("New handler subscribed to event")
}

// Emit synchronously invokes every handler registered for the event,
// in registration order, on the calling goroutine.
//
// The handler list is snapshotted under the read lock and the lock is
// released before any handler runs, so a handler may call On, Emit or
// Off on this same emitter without deadlocking. Handlers registered
// or removed during the emission affect future emissions, not this one.
//
// A panic inside one handler is recovered and logged; the remaining
// handlers of the same emission still run. A contract violation from a
// typed handler aborts the emission and is returned to the caller.
func (e *Emitter) Emit(event string, args ...any) error {
	e.mu.RLock()
	entries := make([]*entry, len(e.events[event]))
	copy(entries, e.events[event])
	e.mu.RUnlock()

	if len(entries) == 0 {
		// No subscribers for this event. Advisory only.
		e.log.Warn().Str("event", event).Msg("Published event with no listeners")
		return fmt.Errorf("event %q: %w", event, ports.ErrNoListeners)
	}

	for _, en := range entries {
		fire, exhausted := en.sub.Consume()

		var err error
		if fire {
			err = e.invoke(event, en, args)
		}

		// The exhausting delivery removes the event's handlers even
		// when that same delivery failed: the budget is spent either
		// way, and a stale Exhausted entry would make later emissions
		// report success while invoking nothing.
		if exhausted {
			// Exhaustion clears the event's whole handler list,
			// not just this subscription.
			e.log.Info().
				Str("event", event).
				Str("subscription_id", en.sub.ID.String()).
				Msg("Counted subscription exhausted, clearing event")
			e.Off(event)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// invoke runs a single handler, containing any panic it raises.
func (e *Emitter) invoke(event string, en *entry, args ports.Args) error {
	var violation error

	func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error().
					Str("event", event).
					Str("subscription_id", en.sub.ID.String()).
					Str("location", faultLocation()).
					Interface("panic", r).
					Msg("Event handler panicked")
			}
		}()

		if err := en.handler(args); err != nil {
			var cv *ports.ContractViolationError
			if errors.As(err, &cv) {
				// The handler doesn't know which event it was
				// dispatched under; we do.
				cv.Event = event
				violation = cv
				return
			}
			violation = fmt.Errorf("event %q: %w", event, err)
		}
	}()

	return violation
}

// Off removes every handler registered for the event.
// Idempotent: removing an event with no handlers is a no-op.
func (e *Emitter) Off(event string) {
	e.mu.Lock()
	delete(e.events, event)
	e.mu.Unlock()
}

// ListenerCount reports how many handlers the event currently has.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.events[event])
}

// Events lists the event names that currently have handlers.
func (e *Emitter) Events() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.events))
	for name, entries := range e.events {
		if len(entries) > 0 {
			names = append(names, name)
		}
	}
	return names
}
