package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Metrics register on the default registry, so one instance per test binary.
var testMetrics = NewConfigMetrics("configtest")

func TestConfigMetrics(t *testing.T) {
	testMetrics.RecordValidationError("cron_schedule")
	testMetrics.RecordValidationError("cron_schedule")
	testMetrics.RecordFallback("cron_schedule", "default")

	assert.Equal(t, 2.0, testutil.ToFloat64(testMetrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(testMetrics.FallbacksTotal.WithLabelValues("cron_schedule")))

	testMetrics.SetFallbackActive("", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(testMetrics.FallbackActive))
	testMetrics.SetFallbackActive("", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(testMetrics.FallbackActive))

	testMetrics.RecordLoadTimestamp()
	assert.Greater(t, testutil.ToFloat64(testMetrics.LoadTimestamp), 0.0)
}
