// Package analytics exposes the reporting view over recorded dispatch
// outcomes. Periods are named shortcuts resolved against the clock at query
// time; an explicit date range bypasses them.
package analytics

import (
	"context"
	"fmt"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/repository"
)

// Period is a named reporting window.
type Period string

const (
	PeriodToday      Period = "today"
	PeriodYesterday  Period = "yesterday"
	PeriodLast7Days  Period = "last_7_days"
	PeriodLast30Days Period = "last_30_days"
	PeriodLast90Days Period = "last_90_days"
	PeriodAllTime    Period = "all_time"
)

// ParsePeriod validates a period name. An empty value defaults to all_time.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodAllTime, nil
	case PeriodToday, PeriodYesterday, PeriodLast7Days, PeriodLast30Days, PeriodLast90Days, PeriodAllTime:
		return Period(s), nil
	default:
		return "", &entity.ValidationError{
			Field:   "period",
			Message: fmt.Sprintf("unknown period %q", s),
		}
	}
}

// Range resolves the period to a half-open [from, to) window in UTC.
// Day-based periods snap to midnight so "today" means the calendar day,
// not the trailing 24 hours.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodToday:
		return midnight, midnight.AddDate(0, 0, 1)
	case PeriodYesterday:
		return midnight.AddDate(0, 0, -1), midnight
	case PeriodLast7Days:
		return midnight.AddDate(0, 0, -7), midnight.AddDate(0, 0, 1)
	case PeriodLast30Days:
		return midnight.AddDate(0, 0, -30), midnight.AddDate(0, 0, 1)
	case PeriodLast90Days:
		return midnight.AddDate(0, 0, -90), midnight.AddDate(0, 0, 1)
	default: // all_time
		return time.Time{}, midnight.AddDate(0, 0, 1)
	}
}

// Report is an aggregate bound to the window it was computed over.
type Report struct {
	Period    Period                       `json:"period"`
	From      time.Time                    `json:"from"`
	To        time.Time                    `json:"to"`
	Aggregate *repository.OutcomeAggregate `json:"aggregate"`
}

// Service answers reporting queries from the outcome repository.
type Service struct {
	outcomes repository.OutcomeRepository
	now      func() time.Time
}

// NewService creates the reporting service.
func NewService(outcomes repository.OutcomeRepository) *Service {
	return &Service{outcomes: outcomes, now: time.Now}
}

// Summary aggregates outcomes over a named period.
func (s *Service) Summary(ctx context.Context, period Period) (*Report, error) {
	from, to := period.Range(s.now())
	return s.summarize(ctx, period, from, to)
}

// SummaryRange aggregates outcomes over an explicit [from, to) window.
func (s *Service) SummaryRange(ctx context.Context, from, to time.Time) (*Report, error) {
	if !to.After(from) {
		return nil, &entity.ValidationError{Field: "to", Message: "range end must be after start"}
	}
	return s.summarize(ctx, "", from, to)
}

func (s *Service) summarize(ctx context.Context, period Period, from, to time.Time) (*Report, error) {
	agg, err := s.outcomes.Aggregate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate outcomes: %w", err)
	}
	return &Report{Period: period, From: from, To: to, Aggregate: agg}, nil
}
