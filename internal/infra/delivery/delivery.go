// Package delivery sends assembled digests to recipients. Two transports
// are provided, SMTP email and a JSON webhook, sharing the same retry
// policy, rate limiting, and circuit breaking. Transport failures surface
// as entity.ErrDeliverySend so the dispatcher can account them uniformly.
package delivery

import (
	"context"

	"follow-digest/internal/domain/entity"
)

// Sender delivers one digest to its recipient.
type Sender interface {
	// Name identifies the transport in logs and breaker state.
	Name() string

	// Send delivers the digest. It blocks through retries and rate
	// limiting, so callers should bound ctx.
	Send(ctx context.Context, digest *entity.Digest) error
}
