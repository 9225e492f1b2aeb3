package metrics

import (
	"errors"
	"testing"
	"time"

	"follow-digest/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("followings", "hit"))
	RecordCacheLookup("followings", true)
	after := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("followings", "hit"))
	if after != before+1 {
		t.Errorf("hit counter = %f, want %f", after, before+1)
	}

	beforeMiss := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("contents", "miss"))
	RecordCacheLookup("contents", false)
	afterMiss := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("contents", "miss"))
	if afterMiss != beforeMiss+1 {
		t.Errorf("miss counter = %f, want %f", afterMiss, beforeMiss+1)
	}
}

func TestRecordUpstreamFetch_Error(t *testing.T) {
	before := testutil.ToFloat64(UpstreamFetchErrorsTotal.WithLabelValues("MEDIUM", "followings"))
	RecordUpstreamFetch(entity.PlatformMedium, "followings", 100*time.Millisecond, errors.New("boom"))
	after := testutil.ToFloat64(UpstreamFetchErrorsTotal.WithLabelValues("MEDIUM", "followings"))
	if after != before+1 {
		t.Errorf("error counter = %f, want %f", after, before+1)
	}
}

func TestRecordDispatchOutcome(t *testing.T) {
	for _, status := range []entity.OutcomeStatus{entity.OutcomeSent, entity.OutcomeFailed, entity.OutcomeSkipped} {
		before := testutil.ToFloat64(DispatchOutcomesTotal.WithLabelValues(string(status)))
		RecordDispatchOutcome(status)
		after := testutil.ToFloat64(DispatchOutcomesTotal.WithLabelValues(string(status)))
		if after != before+1 {
			t.Errorf("outcome counter for %s = %f, want %f", status, after, before+1)
		}
	}
}

func TestRecordDispatchBatch(t *testing.T) {
	RecordDispatchBatch(7, 2*time.Second)
	if got := testutil.ToFloat64(DispatchDueRecipients); got != 7 {
		t.Errorf("due recipients gauge = %f, want 7", got)
	}
}
