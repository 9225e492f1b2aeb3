// Package cache provides the Redis-backed snapshot store for followings and
// contents fetches. Values are JSON-encoded snapshots with a fixed 24 hour
// TTL; keys are composite per the documented convention:
//
//	followings:{platform}:{username}
//	contents:{platform}:{username}:{since}
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"follow-digest/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// SnapshotTTL is the time-to-live applied to every cache write.
// Fixed for all entry kinds; entries are immutable until expiry or overwrite.
const SnapshotTTL = 24 * time.Hour

// RedisStore implements the orchestrator's snapshot cache on Redis.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore with the default snapshot TTL.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, ttl: SnapshotTTL}
}

// NewRedisStoreWithTTL creates a RedisStore with a custom snapshot TTL.
// A non-positive ttl falls back to the default.
func NewRedisStoreWithTTL(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = SnapshotTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// FollowingsKey builds the cache key for a followings snapshot.
func FollowingsKey(platform entity.Platform, username string) string {
	return fmt.Sprintf("followings:%s:%s", platform, username)
}

// ContentsKey builds the cache key for a contents snapshot.
func ContentsKey(platform entity.Platform, username string, since entity.SinceWindow) string {
	return fmt.Sprintf("contents:%s:%s:%s", platform, username, since)
}

// GetFollowings returns the cached followings snapshot, reporting a miss
// (expired or never written) as ok=false with a nil error.
func (s *RedisStore) GetFollowings(ctx context.Context, platform entity.Platform, username string) (*entity.FollowingsSnapshot, bool, error) {
	var snap entity.FollowingsSnapshot
	ok, err := s.get(ctx, FollowingsKey(platform, username), &snap)
	if !ok || err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

// SetFollowings overwrites the followings snapshot with a fresh TTL.
func (s *RedisStore) SetFollowings(ctx context.Context, platform entity.Platform, username string, snap entity.FollowingsSnapshot) error {
	return s.set(ctx, FollowingsKey(platform, username), snap)
}

// GetContents returns the cached contents snapshot for a window.
func (s *RedisStore) GetContents(ctx context.Context, platform entity.Platform, username string, since entity.SinceWindow) (*entity.ContentsSnapshot, bool, error) {
	var snap entity.ContentsSnapshot
	ok, err := s.get(ctx, ContentsKey(platform, username, since), &snap)
	if !ok || err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

// SetContents overwrites the contents snapshot with a fresh TTL.
func (s *RedisStore) SetContents(ctx context.Context, platform entity.Platform, username string, since entity.SinceWindow, snap entity.ContentsSnapshot) error {
	return s.set(ctx, ContentsKey(platform, username, since), snap)
}

func (s *RedisStore) get(ctx context.Context, key string, out any) (bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, out); err != nil {
		// A corrupt entry is treated as a miss so the read path can
		// repopulate it from a live fetch.
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) set(ctx context.Context, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
