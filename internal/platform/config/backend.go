package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// BackendConfig configures cmd/devbackend.
type BackendConfig struct {
	Port        string `env:"PORT,default=8080"`
	Storage     string `env:"STORAGE_BACKEND,default=memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	SeedFile    string `env:"SEED_FILE"`

	// DevSubject authenticates requests that carry neither a session cookie
	// nor X-Debug-Subject. Empty means such requests get 401.
	DevSubject    string        `env:"DEV_SUBJECT"`
	SecureCookies bool          `env:"SECURE_COOKIES,default=false"`
	ClockOffset   time.Duration `env:"DEV_CLOCK_OFFSET,default=0s"`

	RateLimit float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateBurst int     `env:"RATE_LIMIT_BURST,default=40"`

	// PurgeSchedule is a cron schedule for dropping old idempotency records and
	// idle rate limiter entries.
	PurgeSchedule  string        `env:"PURGE_SCHEDULE,default=@every 10m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
	LogFile  string `env:"LOG_FILE"`
}

func LoadBackendConfig() (BackendConfig, error) {
	var cfg BackendConfig
	if err := decode(&cfg); err != nil {
		return BackendConfig{}, fmt.Errorf("backend config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BackendConfig{}, err
	}
	return cfg, nil
}

func (c BackendConfig) Validate() error {
	if err := oneOf("STORAGE_BACKEND", c.Storage, StorageMemory, StoragePostgres); err != nil {
		return err
	}
	if c.Storage == StoragePostgres && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", c.IdempotencyTTL)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return oneOf("LOG_LEVEL", c.LogLevel, "debug", "info", "warn", "error")
}

func (c BackendConfig) Addr() string { return ":" + c.Port }
