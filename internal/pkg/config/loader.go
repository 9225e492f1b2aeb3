// Package config provides fail-open environment loaders and validators
// shared by the worker and other long-running components. Invalid values
// never abort startup; they fall back to the supplied default and surface
// as warnings and metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult carries a loaded value together with any fallback
// warnings. Value holds the parsed type (string, int or time.Duration
// depending on the loader used).
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func okResult(value interface{}) ConfigLoadResult {
	return ConfigLoadResult{Value: value}
}

func fallbackResult(envKey, raw string, reason error, def interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value:           def,
		Warnings:        []string{fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, reason, def)},
		FallbackApplied: true,
	}
}

// LoadEnvString returns the environment value or the default when unset.
// No validation is applied.
func LoadEnvString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string and validates it. An unset variable
// uses the default silently; a value that fails validation uses the
// default with a warning.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return okResult(defaultValue)
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return fallbackResult(envKey, raw, err, defaultValue)
		}
	}
	return okResult(raw)
}

// LoadEnvDuration loads and parses a Go duration string ("30s", "1h30m").
// Parse or validation failures fall back to the default with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return okResult(defaultValue)
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallbackResult(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(d); err != nil {
			return fallbackResult(envKey, raw, err, defaultValue)
		}
	}
	return okResult(d)
}

// LoadEnvInt loads and parses an integer. Parse or validation failures
// fall back to the default with a warning.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return okResult(defaultValue)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallbackResult(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(n); err != nil {
			return fallbackResult(envKey, raw, err, defaultValue)
		}
	}
	return okResult(n)
}
