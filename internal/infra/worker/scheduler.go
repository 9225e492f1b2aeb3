package worker

import (
	"context"
	"log/slog"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/usecase/dispatch"
	"follow-digest/internal/usecase/schedule"

	"github.com/robfig/cron/v3"
)

// PreferenceLister loads the enabled schedule preferences for a tick.
type PreferenceLister interface {
	ListEnabled(ctx context.Context) ([]*entity.SchedulePreference, error)
}

// Dispatcher runs a dispatch. Not-due preferences are passed through so the
// batch records them as skipped.
type Dispatcher interface {
	Dispatch(ctx context.Context, due, notDue []*entity.SchedulePreference) *dispatch.Summary
}

// Scheduler fires the digest dispatch on a cron schedule. Each tick loads
// the enabled preferences, filters for the ones due at the current local
// hour, and dispatches them.
type Scheduler struct {
	prefs      PreferenceLister
	dispatcher Dispatcher
	cfg        *WorkerConfig
	logger     *slog.Logger
	metrics    *WorkerMetrics
	now        func() time.Time
}

// NewScheduler creates a scheduler. metrics may be nil to disable
// instrumentation, logger may be nil to use slog.Default().
func NewScheduler(prefs PreferenceLister, dispatcher Dispatcher, cfg *WorkerConfig, logger *slog.Logger, metrics *WorkerMetrics) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		prefs:      prefs,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Run starts the cron loop and blocks until the context is cancelled.
// In-flight ticks are allowed to finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return err
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(s.cfg.CronSchedule, func() { s.Tick(ctx) }); err != nil {
		return err
	}

	s.logger.Info("scheduler starting",
		slog.String("cron_schedule", s.cfg.CronSchedule),
		slog.String("timezone", s.cfg.Timezone))
	c.Start()

	<-ctx.Done()

	s.logger.Info("scheduler stopping")
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

// Tick performs one dispatch pass: load preferences, evaluate due ones,
// dispatch. It is called by the cron loop and exported so a run can be
// forced at startup or from tests.
func (s *Scheduler) Tick(ctx context.Context) {
	start := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	prefs, err := s.prefs.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("failed to load schedule preferences", slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.RecordRun("failure")
		}
		return
	}

	due, notDue := schedule.Partition(prefs, start)
	if len(prefs) == 0 {
		s.logger.Debug("no enabled preferences")
		s.recordSuccess(start, nil)
		return
	}

	summary := s.dispatcher.Dispatch(ctx, due, notDue)

	s.logger.Info("dispatch run completed",
		slog.String("run_id", summary.RunID),
		slog.Int("due", len(due)),
		slog.Int("not_due", len(notDue)),
		slog.Int("sent", summary.SentCount),
		slog.Int("failed", summary.FailedCount),
		slog.Int("skipped", summary.SkippedCount),
		slog.Duration("duration", time.Since(start)))

	s.recordSuccess(start, summary)
}

func (s *Scheduler) recordSuccess(start time.Time, summary *dispatch.Summary) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRun("success")
	s.metrics.RecordRunDuration(time.Since(start).Seconds())
	s.metrics.RecordLastSuccess()
	if summary != nil {
		s.metrics.RecordDigestsSent(summary.SentCount)
	}
}
