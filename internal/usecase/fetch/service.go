// Package fetch implements the cache-aside read pipeline for followings and
// contents. Cache hits are returned verbatim. On a miss the orchestrator
// fetches live from the platform, returns the fresh result to the caller, and
// populates the snapshot cache and the search index as a side effect.
// Population failures are logged and counted but never surfaced to the caller.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/observability/metrics"
	"follow-digest/internal/platform"
)

// FetcherResolver resolves a platform identifier to its fetcher.
type FetcherResolver interface {
	For(p entity.Platform) (platform.Fetcher, error)
}

// SnapshotCache is the TTL-bound snapshot store. A (nil, false, nil) return
// means a clean miss; an error means the store itself could not be reached,
// which the orchestrator treats as a miss too.
type SnapshotCache interface {
	GetFollowings(ctx context.Context, p entity.Platform, username string) (*entity.FollowingsSnapshot, bool, error)
	SetFollowings(ctx context.Context, p entity.Platform, username string, snap entity.FollowingsSnapshot) error
	GetContents(ctx context.Context, p entity.Platform, username string, since entity.SinceWindow) (*entity.ContentsSnapshot, bool, error)
	SetContents(ctx context.Context, p entity.Platform, username string, since entity.SinceWindow, snap entity.ContentsSnapshot) error
}

// FollowingIndex is the searchable projection of followings snapshots.
// Only followings are indexed; contents never reach the index.
type FollowingIndex interface {
	UpsertFollowings(ctx context.Context, p entity.Platform, parentUsername string, followings []entity.FollowingUser) error
	SearchFollowings(ctx context.Context, p entity.Platform, parentUsername, query string) ([]entity.FollowingUser, error)
}

// ContentEnhancer backfills missing fields on freshly fetched content items,
// typically descriptions extracted from the article body. Best effort: it
// must return the input unchanged for items it cannot improve.
type ContentEnhancer interface {
	Enhance(ctx context.Context, items []entity.ContentItem) []entity.ContentItem
}

// Service orchestrates the read pipeline.
type Service struct {
	fetchers FetcherResolver
	cache    SnapshotCache
	index    FollowingIndex
	enhancer ContentEnhancer
	logger   *slog.Logger
}

// NewService creates a fetch orchestrator. enhancer and logger may be nil.
func NewService(fetchers FetcherResolver, cache SnapshotCache, index FollowingIndex, enhancer ContentEnhancer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetchers: fetchers,
		cache:    cache,
		index:    index,
		enhancer: enhancer,
		logger:   logger,
	}
}

// FetchFollowings returns the accounts username follows on p, optionally
// narrowed by a free-text query. The user's existence is always confirmed
// against the platform first, so a missing user yields ErrUserNotFound even
// when a stale cache entry exists.
func (s *Service) FetchFollowings(ctx context.Context, p entity.Platform, username, query string) (*entity.FollowingsSnapshot, error) {
	if username == "" {
		return nil, &entity.ValidationError{Field: "username", Message: "must not be empty"}
	}

	f, err := s.fetchers.For(p)
	if err != nil {
		return nil, err
	}

	exists, err := f.UserExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: confirm %s on %s: %v", entity.ErrUpstreamFetch, username, p, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s on %s", entity.ErrUserNotFound, username, p)
	}

	if query == "" {
		return s.followingsAll(ctx, f, p, username)
	}
	return s.followingsSearch(ctx, f, p, username, query)
}

func (s *Service) followingsAll(ctx context.Context, f platform.Fetcher, p entity.Platform, username string) (*entity.FollowingsSnapshot, error) {
	if snap, ok := s.cachedFollowings(ctx, p, username); ok {
		return snap, nil
	}

	fresh, err := s.liveFollowings(ctx, f, p, username)
	if err != nil {
		return nil, err
	}
	s.populateFollowings(ctx, p, username, *fresh)
	return fresh, nil
}

// followingsSearch serves filtered reads from the index. The cache entry acts
// as the freshness signal: while it lives, the index is assumed current; once
// it expires the next search refetches and repopulates before querying.
func (s *Service) followingsSearch(ctx context.Context, f platform.Fetcher, p entity.Platform, username, query string) (*entity.FollowingsSnapshot, error) {
	snap, ok := s.cachedFollowings(ctx, p, username)
	if !ok {
		fresh, err := s.liveFollowings(ctx, f, p, username)
		if err != nil {
			return nil, err
		}
		s.populateFollowings(ctx, p, username, *fresh)
		snap = fresh
	}

	results, err := s.index.SearchFollowings(ctx, p, username, query)
	if err != nil {
		return nil, fmt.Errorf("search followings of %s on %s: %w", username, p, err)
	}
	metrics.RecordIndexSearch()

	return &entity.FollowingsSnapshot{Followings: results, FetchedAt: snap.FetchedAt}, nil
}

// FetchContents returns content published by username on p within the window.
// Contents are cached per window but never indexed, and the existence check
// is skipped: a wrong username simply yields whatever the platform returns.
func (s *Service) FetchContents(ctx context.Context, p entity.Platform, username string, since entity.SinceWindow) (*entity.ContentsSnapshot, error) {
	if username == "" {
		return nil, &entity.ValidationError{Field: "username", Message: "must not be empty"}
	}

	f, err := s.fetchers.For(p)
	if err != nil {
		return nil, err
	}

	snap, ok, err := s.cache.GetContents(ctx, p, username, since)
	if err != nil {
		s.logger.WarnContext(ctx, "contents cache read failed, treating as miss",
			"platform", p, "username", username, "since", since, "error", err)
		ok = false
	}
	metrics.RecordCacheLookup("contents", ok)
	if ok {
		return snap, nil
	}

	start := time.Now()
	items, err := f.ListContents(ctx, username, since)
	metrics.RecordUpstreamFetch(p, "contents", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: list contents of %s on %s: %v", entity.ErrUpstreamFetch, username, p, err)
	}

	if s.enhancer != nil {
		items = s.enhancer.Enhance(ctx, items)
	}

	fresh := &entity.ContentsSnapshot{Contents: items, FetchedAt: time.Now().UTC()}
	if err := s.cache.SetContents(ctx, p, username, since, *fresh); err != nil {
		metrics.RecordPopulateError("cache")
		s.logger.WarnContext(ctx, "contents cache population failed",
			"platform", p, "username", username, "since", since, "error", err)
	}
	return fresh, nil
}

func (s *Service) cachedFollowings(ctx context.Context, p entity.Platform, username string) (*entity.FollowingsSnapshot, bool) {
	snap, ok, err := s.cache.GetFollowings(ctx, p, username)
	if err != nil {
		s.logger.WarnContext(ctx, "followings cache read failed, treating as miss",
			"platform", p, "username", username, "error", err)
		ok = false
	}
	metrics.RecordCacheLookup("followings", ok)
	return snap, ok
}

func (s *Service) liveFollowings(ctx context.Context, f platform.Fetcher, p entity.Platform, username string) (*entity.FollowingsSnapshot, error) {
	start := time.Now()
	users, err := f.ListFollowings(ctx, username)
	metrics.RecordUpstreamFetch(p, "followings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: list followings of %s on %s: %v", entity.ErrUpstreamFetch, username, p, err)
	}
	return &entity.FollowingsSnapshot{Followings: users, FetchedAt: time.Now().UTC()}, nil
}

// populateFollowings writes the snapshot through to cache and index. Each
// store fails independently; neither failure reaches the caller.
func (s *Service) populateFollowings(ctx context.Context, p entity.Platform, username string, snap entity.FollowingsSnapshot) {
	if err := s.cache.SetFollowings(ctx, p, username, snap); err != nil {
		metrics.RecordPopulateError("cache")
		s.logger.WarnContext(ctx, "followings cache population failed",
			"platform", p, "username", username, "error", err)
	}
	if err := s.index.UpsertFollowings(ctx, p, username, snap.Followings); err != nil {
		metrics.RecordPopulateError("index")
		s.logger.WarnContext(ctx, "followings index population failed",
			"platform", p, "username", username, "error", err)
	}
}
