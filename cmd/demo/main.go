package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"PulseBus/internal/adapters/eventbus"
	"PulseBus/internal/core/ports"
	"PulseBus/internal/shared/config"
	"PulseBus/internal/shared/logger"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().Msg("Logger initialized")

	// 3. Print loaded config
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel.String()).
		Strs("emitters", cfg.Emitters).
		Msg("Configuration loaded")

	// 4. Initialize the Registry and pre-create configured emitters
	registry := eventbus.NewRegistry(&baseLogger)
	for _, id := range cfg.Emitters {
		registry.GetOrCreate(id)
	}

	ctx := context.Background()

	// 5. Register handlers on the default emitter
	registry.Subscribe(ctx, "greet", eventbus.Typed1(func(name string) {
		baseLogger.Info().Str("name", name).Msg("greet handler fired")
	}))

	registry.Subscribe(ctx, "order.placed", eventbus.Typed2(func(orderID string, amount int) {
		baseLogger.Info().
			Str("order_id", orderID).
			Int("amount", amount).
			Msg("order handler fired")
	}))

	// 6. Publish a few events
	if err := registry.Publish(ctx, "greet", "world"); err != nil {
		baseLogger.Error().Err(err).Msg("greet publish failed")
	}
	if err := registry.Publish(ctx, "order.placed", "ord-42", 1300); err != nil {
		baseLogger.Error().Err(err).Msg("order publish failed")
	}

	// 7. Demonstrate the typed contract: wrong argument type
	err = registry.Publish(ctx, "greet", 42)
	var violation *ports.ContractViolationError
	if errors.As(err, &violation) {
		baseLogger.Warn().
			Str("event", violation.Event).
			Int("param", violation.Param).
			Str("expected", violation.Expected).
			Str("got", violation.Got).
			Msg("Contract violation, as expected")
	}

	// 8. Demonstrate counted subscriptions on a second emitter
	jobsCtx, _ := registry.Select(ctx, "jobs")
	if err := registry.SubscribeTimes(jobsCtx, "tick", 3, eventbus.Typed1(func(n int) {
		baseLogger.Info().Int("n", n).Msg("tick handler fired")
	})); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to register counted handler")
	}

	for n := 1; n <= 4; n++ {
		if err := registry.Publish(jobsCtx, "tick", n); err != nil {
			// The fourth tick lands after exhaustion.
			if errors.Is(err, ports.ErrNoListeners) {
				baseLogger.Info().Int("n", n).Msg("tick had no listeners left")
				continue
			}
			baseLogger.Error().Err(err).Msg("tick publish failed")
		}
	}

	// 9. Demonstrate fault isolation: a panicking handler does not
	// stop the one registered after it.
	registry.Subscribe(ctx, "risky", eventbus.Raw(func(args ...any) {
		panic("handler blew up")
	}))
	registry.Subscribe(ctx, "risky", eventbus.Typed0(func() {
		baseLogger.Info().Msg("second risky handler still fired")
	}))
	if err := registry.Publish(ctx, "risky"); err != nil {
		baseLogger.Error().Err(err).Msg("risky publish failed")
	}

	baseLogger.Info().Msg("Demo finished")
}
