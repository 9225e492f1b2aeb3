package platform

import (
	"context"
	"errors"
	"log/slog"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/resilience/circuitbreaker"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Per-platform outbound budget. Scraping endpoints throttle hard, so keep
// the sustained rate low and allow a small burst for digest fan-out.
const (
	fetchRatePerSecond = 2.0
	fetchBurst         = 4
)

// resilientFetcher decorates a Fetcher with a token-bucket rate limiter and
// a circuit breaker shared across all three capabilities. One breaker per
// platform: if the profile page is down, the followings page is too.
type resilientFetcher struct {
	inner   Fetcher
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
}

func newResilientFetcher(inner Fetcher) Fetcher {
	return &resilientFetcher{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(fetchRatePerSecond), fetchBurst),
		breaker: circuitbreaker.New(circuitbreaker.PlatformFetchConfig(string(inner.Platform()))),
	}
}

func (r *resilientFetcher) Platform() entity.Platform {
	return r.inner.Platform()
}

func (r *resilientFetcher) UserExists(ctx context.Context, username string) (bool, error) {
	res, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.UserExists(ctx, username)
	})
	if err != nil {
		return false, err
	}
	return res.(bool), nil
}

func (r *resilientFetcher) ListFollowings(ctx context.Context, username string) ([]entity.FollowingUser, error) {
	res, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.ListFollowings(ctx, username)
	})
	if err != nil {
		return nil, err
	}
	return res.([]entity.FollowingUser), nil
}

func (r *resilientFetcher) ListContents(ctx context.Context, username string, since entity.SinceWindow) ([]entity.ContentItem, error) {
	res, err := r.execute(ctx, func() (interface{}, error) {
		return r.inner.ListContents(ctx, username, since)
	})
	if err != nil {
		return nil, err
	}
	return res.([]entity.ContentItem), nil
}

// execute waits for a rate token, then runs fn through the circuit breaker.
func (r *resilientFetcher) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := r.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("platform fetch circuit breaker open, request rejected",
				slog.String("platform", string(r.inner.Platform())),
				slog.String("state", r.breaker.State().String()))
		}
		return nil, err
	}
	return res, nil
}
