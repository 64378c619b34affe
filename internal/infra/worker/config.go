// Package worker schedules recurring ingestion cycles. It wraps robfig/cron
// with environment-driven configuration and a fail-open validation strategy:
// an invalid setting logs a warning and falls back to the default rather than
// preventing startup.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newshub/pkg/config"
)

// Config holds the scheduling parameters for the ingestion worker.
type Config struct {
	// CronSchedule is the standard 5-field cron expression controlling when
	// ingestion cycles run. Default: "0 * * * *" (top of every hour).
	CronSchedule string

	// Timezone is the IANA timezone name the schedule is evaluated in.
	// Default: "UTC".
	Timezone string

	// CycleTimeout bounds a single fetch-and-store cycle. The upstream
	// client has its own 30s request timeout; this covers the full cycle
	// including the bulk write. Default: 5 minutes.
	CycleTimeout time.Duration
}

// DefaultConfig returns the production defaults: hourly ingestion in UTC
// with a five minute cycle bound.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 * * * *",
		Timezone:     "UTC",
		CycleTimeout: 5 * time.Minute,
	}
}

// LoadConfigFromEnv reads the worker configuration from environment
// variables (NEWS_CRON, NEWS_CRON_TZ, NEWS_CYCLE_TIMEOUT). Invalid values
// are replaced by their defaults with a warning.
func LoadConfigFromEnv(logger *slog.Logger) Config {
	defaults := DefaultConfig()
	cfg := Config{
		CronSchedule: config.GetEnvString("NEWS_CRON", defaults.CronSchedule),
		Timezone:     config.GetEnvString("NEWS_CRON_TZ", defaults.Timezone),
		CycleTimeout: config.GetEnvDuration("NEWS_CYCLE_TIMEOUT", defaults.CycleTimeout),
	}

	if err := validateSchedule(cfg.CronSchedule); err != nil {
		logger.Warn("invalid cron schedule, using default",
			slog.String("schedule", cfg.CronSchedule),
			slog.String("default", defaults.CronSchedule),
			slog.Any("error", err))
		cfg.CronSchedule = defaults.CronSchedule
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		logger.Warn("invalid timezone, using default",
			slog.String("timezone", cfg.Timezone),
			slog.String("default", defaults.Timezone),
			slog.Any("error", err))
		cfg.Timezone = defaults.Timezone
	}

	if cfg.CycleTimeout <= 0 {
		logger.Warn("non-positive cycle timeout, using default",
			slog.Duration("timeout", cfg.CycleTimeout),
			slog.Duration("default", defaults.CycleTimeout))
		cfg.CycleTimeout = defaults.CycleTimeout
	}

	return cfg
}

func validateSchedule(expr string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("parse cron expression: %w", err)
	}
	return nil
}
