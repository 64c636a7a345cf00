// Package config provides centralized configuration for Breathe runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds all runtime configuration values that would otherwise
// live as magic numbers throughout the codebase.
type RuntimeConfig struct {
	// Engine configuration
	Engine EngineConfig

	// Recorder configuration
	Recorder RecorderConfig

	// Stats configuration
	Stats StatsConfig

	// HTTP client configuration
	HTTP HTTPConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// Daemon configuration
	Daemon DaemonConfig
}

// EngineConfig holds phase-engine configuration.
type EngineConfig struct {
	// TickInterval is the wall-clock interval between engine ticks.
	// The engine itself advances in whole seconds; the runner fires
	// on this interval. Default: 1s
	TickInterval time.Duration
}

// RecorderConfig holds session-recorder configuration.
type RecorderConfig struct {
	// MinSessionSeconds is the minimum elapsed time for a session to be
	// persisted at all. Shorter sessions (accidental starts) are discarded.
	// Default: 5
	MinSessionSeconds int

	// PersistRetries is how many extra write attempts the recorder makes
	// before surfacing a persistence failure. Default: 1
	PersistRetries int
}

// StatsConfig holds stats-aggregator configuration.
type StatsConfig struct {
	// MaxUpdateAttempts bounds the read-modify-write retry loop when the
	// store reports a conflicting concurrent update. Default: 3
	MaxUpdateAttempts int
}

// HTTPConfig holds HTTP client configuration for webhook delivery.
type HTTPConfig struct {
	// Timeout is the default HTTP request timeout.
	// Default: 30s
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays between retry attempts.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration
}

// SchedulerConfig holds scheduler-related configuration.
type SchedulerConfig struct {
	// SleepThreshold is the time gap that indicates the system was sleeping.
	// If elapsed time since the last check exceeds this, stale checks are skipped.
	// Default: 1h
	SleepThreshold time.Duration

	// RolloverSpec is the cron expression (with seconds) for the daily
	// streak rollover job. Default: five minutes past local midnight.
	RolloverSpec string
}

// DaemonConfig holds background-daemon configuration.
type DaemonConfig struct {
	// StartupWait is how long to wait for a background daemon to write
	// its PID file before declaring the start failed. Default: 500ms
	StartupWait time.Duration

	// KillTimeout is how long to wait for a daemon to exit after SIGTERM
	// before force-killing it. Default: 5s
	KillTimeout time.Duration
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Engine: EngineConfig{
			TickInterval: time.Second,
		},
		Recorder: RecorderConfig{
			MinSessionSeconds: 5,
			PersistRetries:    1,
		},
		Stats: StatsConfig{
			MaxUpdateAttempts: 3,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RetryDelays: []time.Duration{
				0,                // Immediate first attempt
				5 * time.Second,  // Retry after 5s
				30 * time.Second, // Retry after 30s
			},
		},
		Scheduler: SchedulerConfig{
			SleepThreshold: 1 * time.Hour,
			RolloverSpec:   "0 5 0 * * *",
		},
		Daemon: DaemonConfig{
			StartupWait: 500 * time.Millisecond,
			KillTimeout: 5 * time.Second,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("BREATHE_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Engine.TickInterval = d
		}
	}
	if v := os.Getenv("BREATHE_MIN_SESSION_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Recorder.MinSessionSeconds = n
		}
	}
	if v := os.Getenv("BREATHE_PERSIST_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Recorder.PersistRetries = n
		}
	}
	if v := os.Getenv("BREATHE_STATS_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Stats.MaxUpdateAttempts = n
		}
	}
	if v := os.Getenv("BREATHE_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("BREATHE_HTTP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.HTTP.MaxRetries = n
		}
	}
	if v := os.Getenv("BREATHE_SLEEP_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scheduler.SleepThreshold = d
		}
	}
}

// ReloadFromEnv reloads configuration from environment variables.
// This is useful for testing or when environment variables change.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}
