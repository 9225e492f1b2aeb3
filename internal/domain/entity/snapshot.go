package entity

import "time"

// FollowingsSnapshot is the cached result of one followings fetch.
// Immutable once written; replaced wholesale on TTL expiry or explicit
// overwrite, never patched in place.
type FollowingsSnapshot struct {
	Followings []FollowingUser `json:"followings"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// ContentsSnapshot is the cached result of one contents fetch for a
// specific recency window.
type ContentsSnapshot struct {
	Contents  []ContentItem `json:"contents"`
	FetchedAt time.Time     `json:"fetched_at"`
}
