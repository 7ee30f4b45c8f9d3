package domain

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState is a custom type for the subscription lifecycle ENUM
type SubscriptionState string

const (
	// SubscriptionArmed means the subscription still has budget left
	// (or is unlimited) and will fire on the next delivery.
	SubscriptionArmed SubscriptionState = "armed"

	// SubscriptionExhausted means a counted subscription has used up
	// its budget. Terminal: an exhausted subscription never re-arms.
	SubscriptionExhausted SubscriptionState = "exhausted"
)

// Subscription is one registered handler slot in an emitter's table.
// The fire budget lives here, inside the table entry itself, so the
// emitter that owns the entry also owns its removal. There is no
// back-reference from the subscription to its container.
type Subscription struct {
	ID    uuid.UUID
	Event string

	// counted subscriptions carry a decrementing budget;
	// unlimited ones never touch it.
	counted   bool
	remaining atomic.Int64
}

// NewSubscription creates an unlimited subscription for an event.
func NewSubscription(event string) *Subscription {
	return &Subscription{
		ID:    uuid.New(),
		Event: event,
	}
}

// NewCountedSubscription creates a subscription that fires on the
// first count deliveries. The caller validates count > 0.
func NewCountedSubscription(event string, count uint) *Subscription {
	s := &Subscription{
		ID:      uuid.New(),
		Event:   event,
		counted: true,
	}
	s.remaining.Store(int64(count))
	return s
}

// Counted reports whether this subscription carries a fire budget.
func (s *Subscription) Counted() bool {
	return s.counted
}

// Remaining returns the budget left on a counted subscription.
// Always 0 for unlimited subscriptions; check Counted first.
func (s *Subscription) Remaining() int64 {
	if !s.counted {
		return 0
	}
	if v := s.remaining.Load(); v > 0 {
		return v
	}
	return 0
}

// State returns the current lifecycle state.
func (s *Subscription) State() SubscriptionState {
	if s.counted && s.remaining.Load() <= 0 {
		return SubscriptionExhausted
	}
	return SubscriptionArmed
}

// Consume records one delivery attempt.
// fire reports whether the handler body should run for this delivery;
// exhausted reports whether this exact delivery used the last unit of
// budget, which is the owner's cue to remove the event's handlers.
// The decrement is atomic, so under concurrent deliveries a counted
// subscription fires at most count times and exhausts exactly once.
func (s *Subscription) Consume() (fire, exhausted bool) {
	if !s.counted {
		return true, false
	}
	// Pre-decrement value: fire while it was still >= 1.
	v := s.remaining.Add(-1) + 1
	return v >= 1, v == 1
}
