package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	LogLevel zerolog.Level

	// Emitters are pre-created in the registry at startup, on top of
	// the "default" one that always exists.
	Emitters []string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {

	// 1. Load .env file into the process environment
	// We check for the error to be sure the file was found.
	if err := godotenv.Load(); err != nil {
		// If the file just doesn't exist, that's fine in prod.
		// But if it's any other error, we should know.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
		// If .env is not found, we just proceed,
		// relying on OS-set env vars.
	}

	// 2. Explicitly bind viper keys to env var names
	// This tells viper: "The key 'app.env' is fed by
	// the environment variable 'APP_ENV'"
	if err := viper.BindEnv("app.env", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("could not bind app.env: %w", err)
	}
	if err := viper.BindEnv("log.level", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("could not bind log.level: %w", err)
	}
	if err := viper.BindEnv("pulse.emitters", "PULSE_EMITTERS"); err != nil {
		return nil, fmt.Errorf("could not bind pulse.emitters: %w", err)
	}

	// 3. Set defaults
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("pulse.emitters", "")

	// 4. Get values directly from viper
	level, err := zerolog.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL %q is not a valid zerolog level: %w", viper.GetString("log.level"), err)
	}

	cfg := Config{
		AppEnv:   viper.GetString("app.env"),
		LogLevel: level,
		Emitters: splitEmitters(viper.GetString("pulse.emitters")),
	}

	// 5. Validation
	for _, id := range cfg.Emitters {
		if id == "" {
			return nil, fmt.Errorf("PULSE_EMITTERS contains an empty emitter id: %q", viper.GetString("pulse.emitters"))
		}
	}

	return &cfg, nil
}

// splitEmitters parses the comma-separated PULSE_EMITTERS value.
// Whitespace around ids is ignored; an empty value means no extra
// emitters beyond "default".
func splitEmitters(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, strings.TrimSpace(p))
	}
	return ids
}
