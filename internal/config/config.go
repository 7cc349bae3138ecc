// Package config loads and validates runtime settings at startup.
// Fail-fast: an invalid variable stops the process before any fetch runs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the job finder.
// Storage and event sinks are optional: an empty URL disables them.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     string `env:"DISCOVERY_PORT" envDefault:"8081"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH"`

	ScrapeIntervalHours int `env:"SCRAPE_INTERVAL_HOURS" envDefault:"6"`

	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"25s"`
	FetchRetries     int           `env:"FETCH_RETRIES" envDefault:"2"`
	FetchConcurrency int           `env:"FETCH_CONCURRENCY" envDefault:"8"`
	UserAgent        string        `env:"USER_AGENT" envDefault:"job-finder/1.0"`

	AdzunaAppID   string `env:"ADZUNA_APP_ID"`
	AdzunaAppKey  string `env:"ADZUNA_APP_KEY"`
	AdzunaCountry string `env:"ADZUNA_COUNTRY" envDefault:"de"`
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges env.Parse cannot express.
func (c *Config) Validate() error {
	if c.ScrapeIntervalHours < 1 {
		return fmt.Errorf("SCRAPE_INTERVAL_HOURS must be a positive integer, got %d", c.ScrapeIntervalHours)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative, got %d", c.FetchRetries)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency)
	}
	return nil
}
