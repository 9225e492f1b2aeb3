// Package worker runs the scheduled digest dispatcher. A cron tick loads
// the enabled schedule preferences, evaluates which are due at the current
// hour, and hands them to the dispatch service.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"follow-digest/internal/pkg/config"
)

// WorkerConfig holds the configuration for the digest worker.
//
// All fields have defaults and validation rules so the worker can operate
// even with missing or invalid configuration (fail-open: invalid values
// fall back to defaults with a warning).
type WorkerConfig struct {
	// CronSchedule is the cron expression for the dispatch tick.
	// The scheduler evaluates due preferences once per tick, so the
	// default fires at the top of every hour to match hour-granular
	// send times. Default: "0 * * * *"
	CronSchedule string

	// Timezone is the IANA timezone the cron scheduler runs in. Per-
	// preference timezones are resolved during due evaluation, so this
	// only anchors the tick itself. Default: "UTC"
	Timezone string

	// DispatchMaxConcurrent caps concurrent recipient dispatches.
	// Range: 1-50. Default: 8
	DispatchMaxConcurrent int

	// DispatchTimeout bounds a single dispatch run. Default: 10 minutes
	DispatchTimeout time.Duration

	// HealthPort is the port for the worker's health check server.
	// Range: 1024-65535. Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:          "0 * * * *",
		Timezone:              "UTC",
		DispatchMaxConcurrent: 8,
		DispatchTimeout:       10 * time.Minute,
		HealthPort:            9091,
	}
}

// Validate checks the configuration values. All invalid fields are
// collected and reported together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidateIntRange(c.DispatchMaxConcurrent, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("dispatch max concurrent: %w", err))
	}

	if err := config.ValidatePositiveDuration(c.DispatchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("dispatch timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}

	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and fallback to defaults on failure. It never returns an
// error: invalid values produce a warning, a metrics increment, and the
// default.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default: "0 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - DISPATCH_MAX_CONCURRENT: integer 1-50 (default: 8)
//   - DISPATCH_TIMEOUT: duration string, e.g. "10m" (default: 10 minutes)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("cron_schedule")
		metrics.RecordFallback("cron_schedule", "default")
		logWarnings(logger, "CronSchedule", result.Warnings)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		logWarnings(logger, "Timezone", result.Warnings)
	}

	result = config.LoadEnvInt("DISPATCH_MAX_CONCURRENT", cfg.DispatchMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.DispatchMaxConcurrent = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("dispatch_max_concurrent")
		metrics.RecordFallback("dispatch_max_concurrent", "default")
		logWarnings(logger, "DispatchMaxConcurrent", result.Warnings)
	}

	result = config.LoadEnvDuration("DISPATCH_TIMEOUT", cfg.DispatchTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 1*time.Hour)
	})
	cfg.DispatchTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("dispatch_timeout")
		metrics.RecordFallback("dispatch_timeout", "default")
		logWarnings(logger, "DispatchTimeout", result.Warnings)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("health_port")
		metrics.RecordFallback("health_port", "default")
		logWarnings(logger, "HealthPort", result.Warnings)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

func logWarnings(logger *slog.Logger, field string, warnings []string) {
	for _, warning := range warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
}
