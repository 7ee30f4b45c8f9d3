package eventbus

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"PulseBus/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build an emitter with a silent logger
func newTestEmitter(t *testing.T) *Emitter {
	t.Helper()
	nopLogger := zerolog.Nop()
	return NewEmitter("test", &nopLogger)
}

func TestEmitter_InvokesHandlersInRegistrationOrder(t *testing.T) {
	em := newTestEmitter(t)

	var invoked []int
	for i := 0; i < 5; i++ {
		i := i
		em.On("seq", Raw(func(args ...any) {
			invoked = append(invoked, i)
		}))
	}

	err := em.Emit("seq")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, invoked)
}

func TestEmitter_ArgsReachEveryHandlerUnchanged(t *testing.T) {
	em := newTestEmitter(t)

	var first, second ports.Args
	em.On("payload", Raw(func(args ...any) { first = args }))
	em.On("payload", Raw(func(args ...any) { second = args }))

	require.NoError(t, em.Emit("payload", "a", 2, true))

	want := ports.Args{"a", 2, true}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestEmitter_EmitWithoutListeners(t *testing.T) {
	em := newTestEmitter(t)

	err := em.Emit("nobody-home")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNoListeners)
	assert.Contains(t, err.Error(), "nobody-home")
}

func TestEmitter_Once(t *testing.T) {
	em := newTestEmitter(t)

	calls := 0
	require.NoError(t, em.Once("boot", Typed0(func() { calls++ })))

	require.NoError(t, em.Emit("boot"))
	assert.Equal(t, 1, calls)

	// Second emission finds nothing: the exhausting delivery removed
	// the event's handlers.
	err := em.Emit("boot")
	assert.ErrorIs(t, err, ports.ErrNoListeners)
	assert.Equal(t, 1, calls)
}

func TestEmitter_Times(t *testing.T) {
	em := newTestEmitter(t)

	calls := 0
	require.NoError(t, em.Times("tick", 3, Typed0(func() { calls++ })))

	for i := 0; i < 3; i++ {
		require.NoError(t, em.Emit("tick"))
	}
	assert.Equal(t, 3, calls)

	err := em.Emit("tick")
	assert.ErrorIs(t, err, ports.ErrNoListeners)
	assert.Equal(t, 3, calls)
}

func TestEmitter_TimesRejectsZeroCount(t *testing.T) {
	em := newTestEmitter(t)

	err := em.Times("tick", 0, Typed0(func() {}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrZeroCount)
	assert.Equal(t, 0, em.ListenerCount("tick"))
}

func TestEmitter_ExhaustingDeliveryWithViolationStillClearsEvent(t *testing.T) {
	em := newTestEmitter(t)

	calls := 0
	require.NoError(t, em.Once("greet", Typed1(func(name string) { calls++ })))

	// The only delivery this subscription will ever get carries the
	// wrong type: the violation is returned, the body never runs, and
	// the budget is spent all the same.
	err := em.Emit("greet", 42)
	var violation *ports.ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 0, calls)

	// Exhausted is terminal: the entry is gone, so the next emission
	// reports no listeners instead of silently invoking nothing.
	assert.Equal(t, 0, em.ListenerCount("greet"))
	assert.ErrorIs(t, em.Emit("greet", "world"), ports.ErrNoListeners)
	assert.Equal(t, 0, calls)
}

func TestEmitter_TimesExhaustionSurvivesViolationOnLastDelivery(t *testing.T) {
	em := newTestEmitter(t)

	calls := 0
	require.NoError(t, em.Times("tick", 2, Typed1(func(n int) { calls++ })))

	require.NoError(t, em.Emit("tick", 1))
	assert.Equal(t, 1, calls)

	// Second (exhausting) delivery violates the contract.
	err := em.Emit("tick", "not-an-int")
	var violation *ports.ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 1, calls)

	assert.Equal(t, 0, em.ListenerCount("tick"))
	assert.ErrorIs(t, em.Emit("tick", 3), ports.ErrNoListeners)
	assert.Equal(t, 1, calls)
}

func TestEmitter_ExhaustionClearsWholeEvent(t *testing.T) {
	em := newTestEmitter(t)

	unlimitedCalls := 0
	em.On("mixed", Typed0(func() { unlimitedCalls++ }))
	require.NoError(t, em.Once("mixed", Typed0(func() {})))

	// First emission fires both; the Once exhausts and clears the
	// whole event list, unlimited handler included.
	require.NoError(t, em.Emit("mixed"))
	assert.Equal(t, 1, unlimitedCalls)
	assert.Equal(t, 0, em.ListenerCount("mixed"))

	err := em.Emit("mixed")
	assert.ErrorIs(t, err, ports.ErrNoListeners)
	assert.Equal(t, 1, unlimitedCalls)
}

func TestEmitter_PanicIsolation(t *testing.T) {
	em := newTestEmitter(t)

	var invoked []string
	em.On("risky", Raw(func(args ...any) {
		invoked = append(invoked, "first")
		panic("boom")
	}))
	em.On("risky", Raw(func(args ...any) {
		invoked = append(invoked, "second")
	}))

	// The panic is contained: the publish succeeds and the handler
	// registered after the faulty one still runs.
	require.NoError(t, em.Emit("risky"))
	assert.Equal(t, []string{"first", "second"}, invoked)

	// A later, independent publish still works normally.
	require.NoError(t, em.Emit("risky"))
	assert.Equal(t, []string{"first", "second", "first", "second"}, invoked)
}

func TestEmitter_TypedDispatch(t *testing.T) {
	em := newTestEmitter(t)

	var captured []string
	em.On("greet", Typed1(func(name string) {
		captured = append(captured, name)
	}))

	require.NoError(t, em.Emit("greet", "world"))
	assert.Equal(t, []string{"world"}, captured)
}

func TestEmitter_TypedDispatch_TypeMismatch(t *testing.T) {
	em := newTestEmitter(t)

	em.On("greet", Typed1(func(name string) {
		t.Fatal("handler body must not run on a type mismatch")
	}))

	err := em.Emit("greet", 42)
	require.Error(t, err)

	var violation *ports.ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "greet", violation.Event)
	assert.Equal(t, 0, violation.Param)
	assert.Equal(t, "string", violation.Expected)
	assert.Equal(t, "int", violation.Got)
}

func TestEmitter_TypedDispatch_ArityMismatch(t *testing.T) {
	em := newTestEmitter(t)
	em.On("pair", Typed2(func(a string, b int) {
		t.Fatal("handler body must not run on an arity mismatch")
	}))

	testCases := []struct {
		name string
		args []any
	}{
		{name: "too few arguments", args: []any{"only-one"}},
		{name: "too many arguments", args: []any{"a", 1, "extra"}},
		{name: "no arguments", args: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := em.Emit("pair", tc.args...)
			var violation *ports.ContractViolationError
			require.ErrorAs(t, err, &violation)
			assert.Equal(t, "pair", violation.Event)
			assert.Equal(t, -1, violation.Param)
			assert.Equal(t, "2", violation.Expected)
		})
	}
}

func TestEmitter_ContractViolationAbortsPublish(t *testing.T) {
	em := newTestEmitter(t)

	secondRan := false
	em.On("strict", Typed1(func(s string) {}))
	em.On("strict", Raw(func(args ...any) { secondRan = true }))

	err := em.Emit("strict", 7)
	var violation *ports.ContractViolationError
	require.ErrorAs(t, err, &violation)

	// The violation is fatal to this publish: handlers after the
	// offending one do not run.
	assert.False(t, secondRan)
}

func TestEmitter_ReentrantCallsDoNotDeadlock(t *testing.T) {
	em := newTestEmitter(t)

	nestedCalls := 0
	em.On("outer", Raw(func(args ...any) {
		// Re-entrant register on the same emitter, mid-publish.
		em.On("outer", Typed0(func() { nestedCalls++ }))

		// Re-entrant publish to a different event.
		_ = em.Emit("inner")

		// Re-entrant removal.
		em.Off("unrelated")
	}))

	require.NoError(t, em.Emit("outer"))

	// The handler added during the publish was not part of that
	// publish's snapshot.
	assert.Equal(t, 0, nestedCalls)
	assert.Equal(t, 2, em.ListenerCount("outer"))

	// It participates in the next one.
	require.NoError(t, em.Emit("outer"))
	assert.Equal(t, 1, nestedCalls)
}

func TestEmitter_OffIsIdempotent(t *testing.T) {
	em := newTestEmitter(t)

	em.On("gone", Typed0(func() {}))
	em.Off("gone")
	em.Off("gone") // removing an absent event is a no-op

	assert.Equal(t, 0, em.ListenerCount("gone"))
	assert.ErrorIs(t, em.Emit("gone"), ports.ErrNoListeners)
}

func TestEmitter_Introspection(t *testing.T) {
	em := newTestEmitter(t)

	em.On("a", Typed0(func() {}))
	em.On("a", Typed0(func() {}))
	em.On("b", Typed0(func() {}))

	assert.Equal(t, 2, em.ListenerCount("a"))
	assert.Equal(t, 1, em.ListenerCount("b"))
	assert.Equal(t, 0, em.ListenerCount("c"))
	assert.ElementsMatch(t, []string{"a", "b"}, em.Events())
}

func TestEmitter_ConcurrentPublishAndSubscribe(t *testing.T) {
	em := newTestEmitter(t)

	var mu sync.Mutex
	total := 0
	em.On("load", Raw(func(args ...any) {
		mu.Lock()
		total++
		mu.Unlock()
	}))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				switch i % 3 {
				case 0:
					_ = em.Emit("load", g, i)
				case 1:
					em.On(fmt.Sprintf("side-%d", g), Typed0(func() {}))
				default:
					_ = em.Emit("load")
				}
			}
		}(g)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	// 8 goroutines, 33 emits each (i%3 == 0 or 2 out of 50).
	assert.Equal(t, 8*33, total)
}

func TestEmitter_ConcurrentCountedSubscription(t *testing.T) {
	em := newTestEmitter(t)

	var mu sync.Mutex
	fired := 0
	require.NoError(t, em.Times("burst", 10, Raw(func(args ...any) {
		mu.Lock()
		fired++
		mu.Unlock()
	})))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_ = em.Emit("burst")
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	// The atomic budget caps the fires regardless of interleaving.
	assert.Equal(t, 10, fired)
	assert.Equal(t, 0, em.ListenerCount("burst"))
}

func TestEmitter_NonViolationHandlerErrorIsWrapped(t *testing.T) {
	em := newTestEmitter(t)

	cause := errors.New("handler said no")
	em.On("err", func(args ports.Args) error { return cause })

	err := em.Emit("err")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "err")
}
