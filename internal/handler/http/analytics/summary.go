// Package analytics provides the HTTP surface of the dispatch reporting view.
package analytics

import (
	"context"
	"errors"
	"net/http"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/handler/http/respond"
	analyticsUC "follow-digest/internal/usecase/analytics"
)

// Service answers summary queries over recorded outcomes.
type Service interface {
	Summary(ctx context.Context, period analyticsUC.Period) (*analyticsUC.Report, error)
}

type SummaryHandler struct{ Svc Service }

func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	period, err := analyticsUC.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := h.Svc.Summary(r.Context(), period)
	if err != nil {
		code := http.StatusInternalServerError
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, report)
}

// Register wires the analytics routes onto the mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /analytics/summary", SummaryHandler{Svc: svc})
}
