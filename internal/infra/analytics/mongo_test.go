package analytics

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMatchWindow(t *testing.T) {
	from := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got := matchWindow(from, to)
	window, ok := got["recorded_at"].(bson.M)
	if !ok {
		t.Fatalf("match = %v, want recorded_at window", got)
	}
	if window["$gte"] != from || window["$lt"] != to {
		t.Errorf("window = %v, want [$gte %v, $lt %v]", window, from, to)
	}
}

func TestMatchWindow_OpenLowerBound(t *testing.T) {
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got := matchWindow(time.Time{}, to)
	window := got["recorded_at"].(bson.M)
	if _, hasGte := window["$gte"]; hasGte {
		t.Error("zero from produced a lower bound")
	}
	if window["$lt"] != to {
		t.Errorf("upper bound = %v, want %v", window["$lt"], to)
	}
}

func TestMatchWindow_Unbounded(t *testing.T) {
	got := matchWindow(time.Time{}, time.Time{})
	if len(got) != 0 {
		t.Errorf("match = %v, want empty filter", got)
	}
}
