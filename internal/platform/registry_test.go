package platform

import (
	"context"
	"errors"
	"testing"

	"follow-digest/internal/domain/entity"
)

// fakeFetcher is a minimal in-memory Fetcher for registry tests.
type fakeFetcher struct {
	platform   entity.Platform
	exists     bool
	followings []entity.FollowingUser
	contents   []entity.ContentItem
	err        error
}

func (f *fakeFetcher) Platform() entity.Platform { return f.platform }

func (f *fakeFetcher) UserExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.err
}

func (f *fakeFetcher) ListFollowings(_ context.Context, _ string) ([]entity.FollowingUser, error) {
	return f.followings, f.err
}

func (f *fakeFetcher) ListContents(_ context.Context, _ string, _ entity.SinceWindow) ([]entity.ContentItem, error) {
	return f.contents, f.err
}

func TestRegistry_For(t *testing.T) {
	reg := NewRegistryWith(map[entity.Platform]Fetcher{
		entity.PlatformMedium: &fakeFetcher{platform: entity.PlatformMedium, exists: true},
	})

	f, err := reg.For(entity.PlatformMedium)
	if err != nil {
		t.Fatalf("For(MEDIUM) err = %v", err)
	}
	if f.Platform() != entity.PlatformMedium {
		t.Errorf("Platform() = %v, want MEDIUM", f.Platform())
	}

	_, err = reg.For(entity.PlatformX)
	if !errors.Is(err, entity.ErrUnsupportedPlatform) {
		t.Errorf("For(unregistered) err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestRegistry_WrapsWithResilience(t *testing.T) {
	inner := &fakeFetcher{
		platform:   entity.PlatformX,
		exists:     true,
		followings: []entity.FollowingUser{{Username: "bob"}},
	}
	reg := NewRegistryWith(map[entity.Platform]Fetcher{entity.PlatformX: inner})

	f, err := reg.For(entity.PlatformX)
	if err != nil {
		t.Fatalf("For(X) err = %v", err)
	}
	if _, ok := f.(*resilientFetcher); !ok {
		t.Fatalf("fetcher not wrapped, got %T", f)
	}

	// Decorated calls pass through to the inner fetcher.
	ok, err := f.UserExists(context.Background(), "alice")
	if err != nil || !ok {
		t.Errorf("UserExists = %v, %v; want true, nil", ok, err)
	}
	fl, err := f.ListFollowings(context.Background(), "alice")
	if err != nil || len(fl) != 1 || fl[0].Username != "bob" {
		t.Errorf("ListFollowings = %v, %v; want [bob], nil", fl, err)
	}
}

func TestResilientFetcher_PropagatesErrors(t *testing.T) {
	upstream := errors.New("boom")
	reg := NewRegistryWith(map[entity.Platform]Fetcher{
		entity.PlatformInstagram: &fakeFetcher{platform: entity.PlatformInstagram, err: upstream},
	})

	f, _ := reg.For(entity.PlatformInstagram)
	if _, err := f.ListContents(context.Background(), "alice", entity.SinceAll); !errors.Is(err, upstream) {
		t.Errorf("ListContents err = %v, want %v", err, upstream)
	}
}
