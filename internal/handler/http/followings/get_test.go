package followings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"follow-digest/internal/domain/entity"
)

type stubService struct {
	snap      *entity.FollowingsSnapshot
	err       error
	gotP      entity.Platform
	gotUser   string
	gotSearch string
}

func (s *stubService) FetchFollowings(_ context.Context, p entity.Platform, username, query string) (*entity.FollowingsSnapshot, error) {
	s.gotP, s.gotUser, s.gotSearch = p, username, query
	return s.snap, s.err
}

func newMux(svc Service) *http.ServeMux {
	mux := http.NewServeMux()
	Register(mux, svc)
	return mux
}

func TestGetHandler_OK(t *testing.T) {
	fetchedAt := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	svc := &stubService{snap: &entity.FollowingsSnapshot{
		Followings: []entity.FollowingUser{{FullName: "Alice A", Username: "alice"}},
		FetchedAt:  fetchedAt,
	}}

	req := httptest.NewRequest(http.MethodGet, "/followings/platforms/medium/users/bob?search=ali", nil)
	w := httptest.NewRecorder()
	newMux(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200: %s", w.Code, w.Body.String())
	}
	if svc.gotP != entity.PlatformMedium || svc.gotUser != "bob" || svc.gotSearch != "ali" {
		t.Errorf("service called with (%s, %s, %s)", svc.gotP, svc.gotUser, svc.gotSearch)
	}

	var resp ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Count != 1 || resp.Followings[0].Username != "alice" {
		t.Errorf("body = %+v", resp)
	}
	if !resp.FetchedAt.Equal(fetchedAt) {
		t.Errorf("fetched_at = %v, want %v", resp.FetchedAt, fetchedAt)
	}
}

func TestGetHandler_UnknownPlatform(t *testing.T) {
	svc := &stubService{}
	req := httptest.NewRequest(http.MethodGet, "/followings/platforms/tiktok/users/bob", nil)
	w := httptest.NewRecorder()
	newMux(svc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestGetHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", fmt.Errorf("%w: ghost", entity.ErrUserNotFound), http.StatusNotFound},
		{"upstream failure", fmt.Errorf("%w: timeout", entity.ErrUpstreamFetch), http.StatusInternalServerError},
		{"validation", &entity.ValidationError{Field: "username", Message: "must not be empty"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			req := httptest.NewRequest(http.MethodGet, "/followings/platforms/x/users/bob", nil)
			w := httptest.NewRecorder()
			newMux(svc).ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("code = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
