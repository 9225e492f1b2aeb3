// Package platform provides fetcher implementations for the supported
// external platforms. Each fetcher knows how to check that a user exists,
// list the accounts the user follows, and list recently published content.
//
// Fetchers are external-facing scrapers: they carry their own rate limiting
// and circuit breaking so a misbehaving platform cannot stall or cascade
// into the fetch pipeline.
package platform

import (
	"context"
	"time"

	"follow-digest/internal/domain/entity"
)

// Fetcher is the capability interface for one platform.
//
// Thread safety: all methods must be safe for concurrent use, the batch
// dispatcher calls them from many goroutines at once.
//
// Error contract:
//   - UserExists returns (false, nil) for a confirmed missing user and a
//     non-nil error only when existence could not be determined.
//   - ListFollowings / ListContents errors are upstream failures; callers
//     wrap them as entity.ErrUpstreamFetch. Neither method retries beyond
//     its own transport-level retry policy.
type Fetcher interface {
	// Platform returns the platform this fetcher serves.
	Platform() entity.Platform

	// UserExists reports whether the username exists on the platform.
	UserExists(ctx context.Context, username string) (bool, error)

	// ListFollowings returns the accounts the user follows.
	ListFollowings(ctx context.Context, username string) ([]entity.FollowingUser, error)

	// ListContents returns content published by the user within the window.
	ListContents(ctx context.Context, username string, since entity.SinceWindow) ([]entity.ContentItem, error)
}

// filterSince drops items published before the window cutoff. Items without
// a publication time are kept: dropping them would silently hide content the
// platform simply doesn't timestamp.
func filterSince(items []entity.ContentItem, since entity.SinceWindow, now time.Time) []entity.ContentItem {
	cutoff := since.CutoffFrom(now)
	if cutoff.IsZero() {
		return items
	}
	out := make([]entity.ContentItem, 0, len(items))
	for _, it := range items {
		if it.PublishedAt != nil && it.PublishedAt.Before(cutoff) {
			continue
		}
		out = append(out, it)
	}
	return out
}
