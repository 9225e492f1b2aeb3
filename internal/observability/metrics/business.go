package metrics

import (
	"time"

	"follow-digest/internal/domain/entity"
)

// RecordCacheLookup records a snapshot cache lookup.
// Kind is "followings" or "contents".
func RecordCacheLookup(kind string, hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// RecordUpstreamFetch records a live platform fetch and its duration.
func RecordUpstreamFetch(platform entity.Platform, kind string, duration time.Duration, err error) {
	UpstreamFetchDuration.WithLabelValues(string(platform), kind).Observe(duration.Seconds())
	if err != nil {
		UpstreamFetchErrorsTotal.WithLabelValues(string(platform), kind).Inc()
	}
}

// RecordIndexSearch records one filtered search served by the index.
func RecordIndexSearch() {
	IndexSearchesTotal.Inc()
}

// RecordPopulateError records a failed write-behind population.
// Store is "cache" or "index".
func RecordPopulateError(store string) {
	PopulateErrorsTotal.WithLabelValues(store).Inc()
}

// RecordDispatchOutcome records one per-recipient dispatch outcome.
func RecordDispatchOutcome(status entity.OutcomeStatus) {
	DispatchOutcomesTotal.WithLabelValues(string(status)).Inc()
}

// RecordDispatchBatch records a whole batch run.
func RecordDispatchBatch(dueRecipients int, duration time.Duration) {
	DispatchDueRecipients.Set(float64(dueRecipients))
	DispatchBatchDuration.Observe(duration.Seconds())
}

// RecordDispatchSend records one per-recipient send duration.
func RecordDispatchSend(duration time.Duration) {
	DispatchSendDuration.Observe(duration.Seconds())
}
