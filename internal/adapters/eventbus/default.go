package eventbus

import (
	"context"
	"os"
	"sync"

	"PulseBus/internal/core/ports"

	"github.com/rs/zerolog"
)

// The process default registry. Most code should take a *Registry as a
// dependency instead; these package-level wrappers exist for the small
// scripts and glue code that just want a working bus.

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it (with its
// "default" emitter, logging to stderr) on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		defaultRegistry = NewRegistry(&logger)
	})
	return defaultRegistry
}

// Subscribe registers a handler on the calling context's active
// emitter in the default registry.
func Subscribe(ctx context.Context, event string, handler ports.Handler) {
	Default().Subscribe(ctx, event, handler)
}

// SubscribeOnce registers a fire-once handler in the default registry.
func SubscribeOnce(ctx context.Context, event string, handler ports.Handler) error {
	return Default().SubscribeOnce(ctx, event, handler)
}

// SubscribeTimes registers a counted handler in the default registry.
func SubscribeTimes(ctx context.Context, event string, count uint, handler ports.Handler) error {
	return Default().SubscribeTimes(ctx, event, count, handler)
}

// Publish emits on the calling context's active emitter in the
// default registry.
func Publish(ctx context.Context, event string, args ...any) error {
	return Default().Publish(ctx, event, args...)
}

// UnsubscribeAll removes an event's handlers in the default registry.
func UnsubscribeAll(ctx context.Context, event string) {
	Default().UnsubscribeAll(ctx, event)
}

// Select binds an active emitter id in the default registry.
func Select(ctx context.Context, id string) (context.Context, ports.Emitter) {
	return Default().Select(ctx, id)
}
