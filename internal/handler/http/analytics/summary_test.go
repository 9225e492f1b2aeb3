package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/repository"
	analyticsUC "follow-digest/internal/usecase/analytics"
)

type stubService struct {
	report    *analyticsUC.Report
	err       error
	gotPeriod analyticsUC.Period
}

func (s *stubService) Summary(_ context.Context, period analyticsUC.Period) (*analyticsUC.Report, error) {
	s.gotPeriod = period
	return s.report, s.err
}

func request(t *testing.T, svc Service, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	Register(mux, svc)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSummaryHandler_OK(t *testing.T) {
	svc := &stubService{report: &analyticsUC.Report{
		Period: analyticsUC.PeriodLast7Days,
		Aggregate: &repository.OutcomeAggregate{
			Total:    10,
			ByStatus: map[entity.OutcomeStatus]int64{entity.OutcomeSent: 8, entity.OutcomeFailed: 2},
		},
	}}

	w := request(t, svc, "/analytics/summary?period=last_7_days")

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200: %s", w.Code, w.Body.String())
	}
	if svc.gotPeriod != analyticsUC.PeriodLast7Days {
		t.Errorf("period = %q", svc.gotPeriod)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["period"] != "last_7_days" {
		t.Errorf("body period = %v", body["period"])
	}
}

func TestSummaryHandler_DefaultPeriod(t *testing.T) {
	svc := &stubService{report: &analyticsUC.Report{}}
	w := request(t, svc, "/analytics/summary")

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	if svc.gotPeriod != analyticsUC.PeriodAllTime {
		t.Errorf("period = %q, want all_time default", svc.gotPeriod)
	}
}

func TestSummaryHandler_InvalidPeriod(t *testing.T) {
	svc := &stubService{}
	w := request(t, svc, "/analytics/summary?period=fortnight")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}
