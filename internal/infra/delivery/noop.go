package delivery

import (
	"context"
	"log/slog"

	"follow-digest/internal/domain/entity"
)

// NoopSender accepts every digest without delivering it. Used when no
// transport is configured, so local runs still exercise the full dispatch
// path and outcome accounting.
type NoopSender struct {
	logger *slog.Logger
}

func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Name() string { return "noop" }

func (s *NoopSender) Send(ctx context.Context, digest *entity.Digest) error {
	s.logger.InfoContext(ctx, "digest discarded by noop sender",
		"recipient", digest.Recipient,
		"sections", len(digest.Sections),
		"contents", digest.ContentCount())
	return nil
}
