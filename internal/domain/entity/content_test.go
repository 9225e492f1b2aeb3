package entity

import (
	"testing"
	"time"
)

func TestParseSinceWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    SinceWindow
		wantErr bool
	}{
		{input: "", want: SinceAll},
		{input: "all", want: SinceAll},
		{input: "today", want: SinceToday},
		{input: "TODAY", want: SinceToday},
		{input: "last_7_days", want: SinceLast7Days},
		{input: "last_30_days", want: SinceLast30Days},
		{input: "yesterday", wantErr: true},
		{input: "7d", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSinceWindow(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSinceWindow(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSinceWindow(%q) err = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSinceWindow(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSinceWindow_CutoffFrom(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	if got := SinceAll.CutoffFrom(now); !got.IsZero() {
		t.Errorf("SinceAll cutoff = %v, want zero time", got)
	}

	wantToday := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := SinceToday.CutoffFrom(now); !got.Equal(wantToday) {
		t.Errorf("SinceToday cutoff = %v, want %v", got, wantToday)
	}

	want7 := now.AddDate(0, 0, -7)
	if got := SinceLast7Days.CutoffFrom(now); !got.Equal(want7) {
		t.Errorf("SinceLast7Days cutoff = %v, want %v", got, want7)
	}

	want30 := now.AddDate(0, 0, -30)
	if got := SinceLast30Days.CutoffFrom(now); !got.Equal(want30) {
		t.Errorf("SinceLast30Days cutoff = %v, want %v", got, want30)
	}
}
