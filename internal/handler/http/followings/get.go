package followings

import (
	"context"
	"errors"
	"net/http"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/handler/http/respond"
)

// Service is the slice of the fetch orchestrator this handler needs.
type Service interface {
	FetchFollowings(ctx context.Context, p entity.Platform, username, query string) (*entity.FollowingsSnapshot, error)
}

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	platform, err := entity.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	username := r.PathValue("username")
	search := r.URL.Query().Get("search")

	snap, err := h.Svc.FetchFollowings(r.Context(), platform, username, search)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{
		Platform:   string(platform),
		Username:   username,
		Search:     search,
		Count:      len(snap.Followings),
		Followings: toUserDTOs(snap.Followings),
		FetchedAt:  snap.FetchedAt,
	})
}

func statusFor(err error) int {
	var vErr *entity.ValidationError
	switch {
	case errors.Is(err, entity.ErrUnsupportedPlatform), errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUpstreamFetch):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
