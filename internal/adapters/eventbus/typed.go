package eventbus

import (
	"reflect"
	"strconv"

	"PulseBus/internal/core/ports"
)

// Typed handler constructors. Each captures the declared argument
// signature and checks every published argument list against it,
// positionally, before the wrapped function runs. An arity or type
// mismatch produces a *ports.ContractViolationError instead of a
// panicking type assertion.

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// checkArgs validates args against the declared signature.
func checkArgs(declared []reflect.Type, args ports.Args) *ports.ContractViolationError {
	if len(args) != len(declared) {
		return &ports.ContractViolationError{
			Param:    -1,
			Expected: strconv.Itoa(len(declared)),
			Got:      strconv.Itoa(len(args)),
		}
	}
	for i, want := range declared {
		got := reflect.TypeOf(args[i])
		if got == nil {
			// Untyped nil can't satisfy any declared parameter:
			// the type assertion below it would panic.
			return &ports.ContractViolationError{
				Param:    i,
				Expected: want.String(),
				Got:      "nil",
			}
		}
		if !got.AssignableTo(want) {
			return &ports.ContractViolationError{
				Param:    i,
				Expected: want.String(),
				Got:      got.String(),
			}
		}
	}
	return nil
}

// Raw wraps a fully dynamic handler: no declared signature, no checks.
// The handler sees the argument list exactly as published.
func Raw(fn func(args ...any)) ports.Handler {
	return func(args ports.Args) error {
		fn(args...)
		return nil
	}
}

// Typed0 wraps a no-argument handler. Publishing any arguments to it
// is a contract violation.
func Typed0(fn func()) ports.Handler {
	return func(args ports.Args) error {
		if cv := checkArgs(nil, args); cv != nil {
			return cv
		}
		fn()
		return nil
	}
}

// Typed1 wraps a one-argument handler.
func Typed1[A any](fn func(A)) ports.Handler {
	declared := []reflect.Type{typeOf[A]()}
	return func(args ports.Args) error {
		if cv := checkArgs(declared, args); cv != nil {
			return cv
		}
		fn(args[0].(A))
		return nil
	}
}

// Typed2 wraps a two-argument handler.
func Typed2[A, B any](fn func(A, B)) ports.Handler {
	declared := []reflect.Type{typeOf[A](), typeOf[B]()}
	return func(args ports.Args) error {
		if cv := checkArgs(declared, args); cv != nil {
			return cv
		}
		fn(args[0].(A), args[1].(B))
		return nil
	}
}

// Typed3 wraps a three-argument handler.
func Typed3[A, B, C any](fn func(A, B, C)) ports.Handler {
	declared := []reflect.Type{typeOf[A](), typeOf[B](), typeOf[C]()}
	return func(args ports.Args) error {
		if cv := checkArgs(declared, args); cv != nil {
			return cv
		}
		fn(args[0].(A), args[1].(B), args[2].(C))
		return nil
	}
}

// Typed4 wraps a four-argument handler.
func Typed4[A, B, C, D any](fn func(A, B, C, D)) ports.Handler {
	declared := []reflect.Type{typeOf[A](), typeOf[B](), typeOf[C](), typeOf[D]()}
	return func(args ports.Args) error {
		if cv := checkArgs(declared, args); cv != nil {
			return cv
		}
		fn(args[0].(A), args[1].(B), args[2].(C), args[3].(D))
		return nil
	}
}
