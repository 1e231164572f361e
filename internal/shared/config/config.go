package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the monitor service, loaded once from
// the environment (a .env file is honored when present).
type Config struct {
	// Base URL of the remote auction-management REST API.
	APIBaseURL string
	// Address the fiber server listens on.
	HTTPAddr string
	// Interval between lifecycle ticks. One second unless overridden.
	TickInterval time.Duration
	// Timeout applied to outbound API requests.
	APITimeout time.Duration
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:   getEnv("API_BASE_URL", "http://127.0.0.1:8000"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":9000"),
		TickInterval: time.Second,
		APITimeout:   10 * time.Second,
	}

	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TICK_INTERVAL %q: %w", v, err)
		}
		cfg.TickInterval = d
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid API_TIMEOUT %q: %w", v, err)
		}
		cfg.APITimeout = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
