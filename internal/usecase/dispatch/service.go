// Package dispatch assembles and delivers digests for the preferences that
// are due in a batch run. Work fans out per recipient and, inside each
// recipient, per followed account. Failures are isolated at both levels: a
// broken account contributes an empty section, a failed send marks only that
// recipient's outcome as failed. A batch run itself never returns an error.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/observability/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRecipientParallelism = 8
	sectionParallelism          = 4
)

// ContentProvider retrieves the content window for one followed account.
// Satisfied by the fetch orchestrator, so dispatch reads go through the
// same cache-aside pipeline as interactive reads.
type ContentProvider interface {
	FetchContents(ctx context.Context, p entity.Platform, username string, since entity.SinceWindow) (*entity.ContentsSnapshot, error)
}

// DigestSender delivers one assembled digest to its recipient.
type DigestSender interface {
	Send(ctx context.Context, digest *entity.Digest) error
}

// OutcomeRecorder persists outcomes for later analytics.
type OutcomeRecorder interface {
	Record(ctx context.Context, outcomes []entity.DispatchOutcome) error
}

// Summary is the result of one batch run.
type Summary struct {
	RunID        string                   `json:"run_id"`
	SentCount    int                      `json:"sent_count"`
	FailedCount  int                      `json:"failed_count"`
	SkippedCount int                      `json:"skipped_count"`
	Outcomes     []entity.DispatchOutcome `json:"outcomes"`
}

// Service is the batch dispatcher.
type Service struct {
	contents    ContentProvider
	sender      DigestSender
	outcomes    OutcomeRecorder
	parallelism int
	logger      *slog.Logger
}

// NewService creates a dispatcher. outcomes and logger may be nil; a nil
// outcomes repository disables analytics recording.
func NewService(contents ContentProvider, sender DigestSender, outcomes OutcomeRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		contents:    contents,
		sender:      sender,
		outcomes:    outcomes,
		parallelism: defaultRecipientParallelism,
		logger:      logger,
	}
}

// Dispatch runs one batch. Preferences in notDue, and due preferences that
// fail validation, are recorded as skipped outcomes with zero counts; the
// rest are grouped by recipient and each recipient gets exactly one send
// attempt.
func (s *Service) Dispatch(ctx context.Context, due, notDue []*entity.SchedulePreference) *Summary {
	start := time.Now()
	runID := uuid.New().String()

	groups, order, skipped := s.partition(ctx, due)
	skipped = append(skipped, notDueOutcomes(notDue)...)

	s.logger.InfoContext(ctx, "dispatch batch started",
		"run_id", runID, "due_preferences", len(due), "not_due", len(notDue),
		"recipients", len(order), "skipped", len(skipped))

	outcomes := make([]entity.DispatchOutcome, 0, len(order)+len(skipped))
	outcomes = append(outcomes, skipped...)

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism)
	for _, recipient := range order {
		prefs := groups[recipient]
		eg.Go(func() error {
			outcome := s.dispatchRecipient(egCtx, runID, recipient, prefs)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	// Goroutines only ever return nil; Wait is for completion, not errors.
	_ = eg.Wait()

	summary := &Summary{RunID: runID, Outcomes: outcomes}
	for _, o := range outcomes {
		metrics.RecordDispatchOutcome(o.Status)
		switch o.Status {
		case entity.OutcomeSent:
			summary.SentCount++
		case entity.OutcomeFailed:
			summary.FailedCount++
		case entity.OutcomeSkipped:
			summary.SkippedCount++
		}
	}
	metrics.RecordDispatchBatch(len(order), time.Since(start))

	s.record(ctx, runID, outcomes)

	s.logger.InfoContext(ctx, "dispatch batch finished",
		"run_id", runID, "sent", summary.SentCount,
		"failed", summary.FailedCount, "skipped", summary.SkippedCount,
		"duration_ms", time.Since(start).Milliseconds())

	return summary
}

// partition splits the due set into per-recipient groups and skipped
// outcomes for preferences that fail validation. Order preserves first
// appearance so runs are deterministic apart from goroutine scheduling.
func (s *Service) partition(ctx context.Context, due []*entity.SchedulePreference) (map[string][]*entity.SchedulePreference, []string, []entity.DispatchOutcome) {
	groups := make(map[string][]*entity.SchedulePreference)
	var order []string
	var skipped []entity.DispatchOutcome

	for _, pref := range due {
		if err := pref.Validate(); err != nil {
			s.logger.WarnContext(ctx, "preference skipped",
				"recipient", pref.Recipient, "platform", pref.Platform,
				"username", pref.Username, "error", err)
			skipped = append(skipped, entity.DispatchOutcome{
				Recipient:  pref.Recipient,
				Status:     entity.OutcomeSkipped,
				Frequency:  pref.Frequency,
				Error:      err.Error(),
				RecordedAt: time.Now().UTC(),
			})
			continue
		}
		if _, ok := groups[pref.Recipient]; !ok {
			order = append(order, pref.Recipient)
		}
		groups[pref.Recipient] = append(groups[pref.Recipient], pref)
	}
	return groups, order, skipped
}

// notDueOutcomes builds skipped outcomes with zero counts for the
// preferences the hour evaluator rejected for this run.
func notDueOutcomes(notDue []*entity.SchedulePreference) []entity.DispatchOutcome {
	outcomes := make([]entity.DispatchOutcome, 0, len(notDue))
	for _, pref := range notDue {
		outcomes = append(outcomes, entity.DispatchOutcome{
			Recipient:  pref.Recipient,
			Status:     entity.OutcomeSkipped,
			Frequency:  pref.Frequency,
			RecordedAt: time.Now().UTC(),
		})
	}
	return outcomes
}

func (s *Service) dispatchRecipient(ctx context.Context, runID, recipient string, prefs []*entity.SchedulePreference) entity.DispatchOutcome {
	start := time.Now()
	freq := prefs[0].Frequency

	sections := make([]entity.DigestSection, len(prefs))
	sem := make(chan struct{}, sectionParallelism)
	var wg sync.WaitGroup
	for i, pref := range prefs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			sections[i] = s.buildSection(ctx, runID, pref)
		}()
	}
	wg.Wait()

	digest := &entity.Digest{
		Recipient:   recipient,
		Frequency:   freq,
		Sections:    sections,
		GeneratedAt: time.Now().UTC(),
	}

	sendStart := time.Now()
	err := s.sender.Send(ctx, digest)
	metrics.RecordDispatchSend(time.Since(sendStart))

	outcome := entity.DispatchOutcome{
		Recipient:        recipient,
		Status:           entity.OutcomeSent,
		Frequency:        freq,
		FollowingsCount:  len(sections), // followed accounts in the digest, one per section
		ContentsCount:    digest.ContentCount(),
		Platforms:        digest.Platforms(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		RecordedAt:       time.Now().UTC(),
	}
	if err != nil {
		outcome.Status = entity.OutcomeFailed
		outcome.Error = err.Error()
		s.logger.ErrorContext(ctx, "digest delivery failed",
			"run_id", runID, "recipient", recipient, "error", err)
	}
	return outcome
}

// buildSection fetches one account's content window. Any failure degrades
// to an empty section so the rest of the digest still goes out.
func (s *Service) buildSection(ctx context.Context, runID string, pref *entity.SchedulePreference) entity.DigestSection {
	section := entity.DigestSection{Platform: pref.Platform, Username: pref.Username}

	snap, err := s.contents.FetchContents(ctx, pref.Platform, pref.Username, windowFor(pref.Frequency))
	if err != nil {
		s.logger.WarnContext(ctx, "section fetch failed, sending empty section",
			"run_id", runID, "recipient", pref.Recipient,
			"platform", pref.Platform, "username", pref.Username, "error", err)
		return section
	}
	section.Contents = snap.Contents
	return section
}

// record persists outcomes for analytics. Best effort: a sink failure is
// logged and the summary already returned to the caller stands.
func (s *Service) record(ctx context.Context, runID string, outcomes []entity.DispatchOutcome) {
	if s.outcomes == nil || len(outcomes) == 0 {
		return
	}
	if err := s.outcomes.Record(ctx, outcomes); err != nil {
		s.logger.ErrorContext(ctx, "outcome recording failed",
			"run_id", runID, "outcomes", len(outcomes), "error", err)
	}
}

// windowFor maps a digest frequency to the content window it covers.
func windowFor(freq entity.Frequency) entity.SinceWindow {
	switch freq {
	case entity.FrequencyWeekly:
		return entity.SinceLast7Days
	case entity.FrequencyMonthly:
		return entity.SinceLast30Days
	default:
		return entity.SinceToday
	}
}
