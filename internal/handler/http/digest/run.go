// Package digest provides the manual trigger endpoint for batch dispatch.
// It runs the same pipeline as the hourly worker tick and reports partial
// success with 207 Multi-Status.
package digest

import (
	"context"
	"net/http"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/handler/http/respond"
	"follow-digest/internal/usecase/dispatch"
	"follow-digest/internal/usecase/schedule"
)

// PreferenceLister loads the enabled schedule preferences.
type PreferenceLister interface {
	ListEnabled(ctx context.Context) ([]*entity.SchedulePreference, error)
}

// Dispatcher runs one batch. Not-due preferences are passed through so the
// batch records them as skipped.
type Dispatcher interface {
	Dispatch(ctx context.Context, due, notDue []*entity.SchedulePreference) *dispatch.Summary
}

// RunResponse is the body of a trigger call.
type RunResponse struct {
	Message      string   `json:"message"`
	RunID        string   `json:"run_id"`
	SuccessCount int      `json:"successCount"`
	FailureCount int      `json:"failureCount"`
	SkippedCount int      `json:"skippedCount,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

type RunHandler struct {
	Prefs PreferenceLister
	Svc   Dispatcher

	// Now is swapped in tests; zero value means time.Now.
	Now func() time.Time
}

func (h RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	prefs, err := h.Prefs.ListEnabled(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	due, notDue := schedule.Partition(prefs, now)
	summary := h.Svc.Dispatch(r.Context(), due, notDue)

	resp := RunResponse{
		Message:      "dispatch completed",
		RunID:        summary.RunID,
		SuccessCount: summary.SentCount,
		FailureCount: summary.FailedCount,
		SkippedCount: summary.SkippedCount,
	}
	for _, o := range summary.Outcomes {
		if o.Status == entity.OutcomeFailed {
			resp.Errors = append(resp.Errors, o.Recipient+": "+o.Error)
		}
	}

	code := http.StatusOK
	if summary.FailedCount > 0 {
		code = http.StatusMultiStatus
		resp.Message = "dispatch completed with failures"
	}
	respond.JSON(w, code, resp)
}

// Register wires the digest routes onto the mux.
func Register(mux *http.ServeMux, prefs PreferenceLister, svc Dispatcher) {
	mux.Handle("POST /digest/run", RunHandler{Prefs: prefs, Svc: svc})
}
