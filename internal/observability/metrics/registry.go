// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Cache-aside pipeline metrics
var (
	// CacheLookupsTotal counts snapshot cache lookups by kind and result (hit/miss)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_cache_lookups_total",
			Help: "Total snapshot cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	// UpstreamFetchDuration measures live platform fetch duration in seconds
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Live platform fetch duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"platform", "kind"},
	)

	// UpstreamFetchErrorsTotal counts failed live platform fetches
	UpstreamFetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetch_errors_total",
			Help: "Total failed live platform fetches",
		},
		[]string{"platform", "kind"},
	)

	// IndexSearchesTotal counts filtered searches served by the following index
	IndexSearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "following_index_searches_total",
			Help: "Total filtered searches served by the following index",
		},
	)

	// PopulateErrorsTotal counts failed cache/index population writes.
	// These are write-behind failures: the read still succeeds.
	PopulateErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_populate_errors_total",
			Help: "Total failed snapshot cache or index population writes",
		},
		[]string{"store"},
	)
)

// Digest dispatch metrics
var (
	// DispatchOutcomesTotal counts per-recipient dispatch outcomes by status
	DispatchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_dispatch_outcomes_total",
			Help: "Total per-recipient dispatch outcomes by status",
		},
		[]string{"status"},
	)

	// DispatchBatchDuration measures whole batch run duration in seconds
	DispatchBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_dispatch_batch_duration_seconds",
			Help:    "Whole digest batch run duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// DispatchSendDuration measures per-recipient send duration in seconds
	DispatchSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_dispatch_send_duration_seconds",
			Help:    "Per-recipient digest send duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DispatchDueRecipients tracks how many recipients were due in the last run
	DispatchDueRecipients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_dispatch_due_recipients",
			Help: "Recipients due in the most recent batch run",
		},
	)
)
