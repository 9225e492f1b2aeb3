package repository

import (
	"context"
	"time"

	"follow-digest/internal/domain/entity"
)

// OutcomeAggregate is the reporting view over persisted dispatch outcomes:
// counts grouped by status, frequency and platform within a date range.
type OutcomeAggregate struct {
	Total       int64
	ByStatus    map[entity.OutcomeStatus]int64
	ByFrequency map[entity.Frequency]int64
	ByPlatform  map[string]int64
}

// OutcomeRepository persists and aggregates per-recipient dispatch outcomes.
// Record is best-effort at the call site: implementations return errors, but
// callers log and continue rather than propagate.
type OutcomeRepository interface {
	Record(ctx context.Context, outcomes []entity.DispatchOutcome) error
	Aggregate(ctx context.Context, from, to time.Time) (*OutcomeAggregate, error)
}
