package ports

import (
	"errors"
	"fmt"
)

var (
	// ErrNoListeners is returned by Emit when the event has no
	// registered handlers. Informational, not a failure: nothing
	// was invoked.
	ErrNoListeners = errors.New("no listeners registered for event")

	// ErrZeroCount is returned by Times when count is 0.
	// A zero budget would never fire; register with On instead if
	// an unlimited subscription is what you want.
	ErrZeroCount = errors.New("counted subscription needs a count of at least 1")
)

// ContractViolationError reports a mismatch between a handler's declared
// argument signature and the arguments actually published. It aborts the
// publish it occurred in: the caller and the handler disagree about the
// event's shape, and dispatch cannot safely continue.
type ContractViolationError struct {
	Event    string // filled in by the emitter at dispatch time
	Param    int    // zero-based argument position; -1 when the arity itself is wrong
	Expected string // expected type name, or expected argument count
	Got      string // actual type name, or actual argument count
}

func (e *ContractViolationError) Error() string {
	if e.Param < 0 {
		return fmt.Sprintf("event %q: handler expects %s argument(s), got %s", e.Event, e.Expected, e.Got)
	}
	return fmt.Sprintf("event %q: parameter %d: expected %s, got %s", e.Event, e.Param, e.Expected, e.Got)
}
