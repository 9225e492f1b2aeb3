package contents

import (
	"context"
	"errors"
	"net/http"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/handler/http/respond"
)

// Service is the slice of the fetch orchestrator this handler needs.
type Service interface {
	FetchContents(ctx context.Context, p entity.Platform, username string, since entity.SinceWindow) (*entity.ContentsSnapshot, error)
}

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	platform, err := entity.ParsePlatform(r.PathValue("platform"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	username := r.PathValue("username")

	since, err := entity.ParseSinceWindow(r.URL.Query().Get("since"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := h.Svc.FetchContents(r.Context(), platform, username, since)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, ListResponse{
		Platform:  string(platform),
		Username:  username,
		Since:     string(since),
		Count:     len(snap.Contents),
		Contents:  toItemDTOs(snap.Contents),
		FetchedAt: snap.FetchedAt,
	})
}

func statusFor(err error) int {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr), errors.Is(err, entity.ErrUnsupportedPlatform):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUpstreamFetch):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
