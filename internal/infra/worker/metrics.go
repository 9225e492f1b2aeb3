package worker

import (
	"follow-digest/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the digest worker. It
// embeds ConfigMetrics for configuration monitoring and adds dispatch run
// tracking.
//
// Worker-specific metrics:
//   - worker_dispatch_runs_total: total dispatch runs by status (success/failure)
//   - worker_dispatch_duration_seconds: duration histogram of dispatch runs
//   - worker_dispatch_digests_sent_total: total digests delivered across runs
//   - worker_dispatch_last_success_timestamp: Unix timestamp of last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	// DispatchRunsTotal counts dispatch runs by outcome status.
	DispatchRunsTotal *prometheus.CounterVec

	// DispatchDurationSeconds measures the duration of a full dispatch run.
	// Buckets cover 1s to 15m; a run fans out to every due recipient.
	DispatchDurationSeconds prometheus.Histogram

	// DispatchDigestsSentTotal counts digests delivered across all runs.
	DispatchDigestsSentTotal prometheus.Counter

	// DispatchLastSuccessTimestamp records when the last run completed
	// without a scheduler-level failure.
	DispatchLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics register
// automatically via promauto.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		DispatchRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_dispatch_runs_total",
			Help: "Total number of dispatch runs by status (success/failure)",
		}, []string{"status"}),

		DispatchDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_dispatch_duration_seconds",
			Help:    "Duration of a dispatch run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 180, 600, 900},
		}),

		DispatchDigestsSentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_dispatch_digests_sent_total",
			Help: "Total number of digests delivered across all dispatch runs",
		}),

		DispatchLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_dispatch_last_success_timestamp",
			Help: "Unix timestamp of the last successful dispatch run",
		}),
	}
}

// MustRegister is a no-op kept for call-site symmetry; promauto already
// registered the metrics in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordRun increments the run counter for the given status
// ("success" or "failure").
func (m *WorkerMetrics) RecordRun(status string) {
	m.DispatchRunsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration observes the duration of a dispatch run in seconds.
func (m *WorkerMetrics) RecordRunDuration(seconds float64) {
	m.DispatchDurationSeconds.Observe(seconds)
}

// RecordDigestsSent adds the number of digests delivered in a run.
func (m *WorkerMetrics) RecordDigestsSent(count int) {
	m.DispatchDigestsSentTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.DispatchLastSuccessTimestamp.SetToCurrentTime()
}
