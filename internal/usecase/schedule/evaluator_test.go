package schedule

import (
	"testing"
	"time"

	"follow-digest/internal/domain/entity"
)

func pref(freq entity.Frequency, sendTime, tz string) *entity.SchedulePreference {
	return &entity.SchedulePreference{
		Recipient: "user@example.com",
		Platform:  entity.PlatformMedium,
		Username:  "bob",
		Frequency: freq,
		SendTime:  sendTime,
		Timezone:  tz,
		Enabled:   true,
	}
}

func TestDueAt(t *testing.T) {
	// 2024-01-08 is a Monday; 2024-01-01 is both a Monday and the 1st.
	monday9 := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	tuesday9 := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	first9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	second9 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		pref *entity.SchedulePreference
		now  time.Time
		want bool
	}{
		{"daily at matching hour", pref(entity.FrequencyDaily, "09:00", "UTC"), monday9, true},
		{"daily at wrong hour", pref(entity.FrequencyDaily, "10:00", "UTC"), monday9, false},
		{"daily minutes ignored", pref(entity.FrequencyDaily, "09:45", "UTC"), monday9, true},
		{"weekly on monday", pref(entity.FrequencyWeekly, "09:00", "UTC"), monday9, true},
		{"weekly off monday", pref(entity.FrequencyWeekly, "09:00", "UTC"), tuesday9, false},
		{"monthly on the 1st", pref(entity.FrequencyMonthly, "09:00", "UTC"), first9, true},
		{"monthly off the 1st", pref(entity.FrequencyMonthly, "09:00", "UTC"), second9, false},
		{"unknown frequency", pref(entity.Frequency("fortnightly"), "09:00", "UTC"), monday9, false},
		{"bad timezone", pref(entity.FrequencyDaily, "09:00", "Mars/Olympus"), monday9, false},
		{"bad send time", pref(entity.FrequencyDaily, "late", "UTC"), monday9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueAt(tt.pref, tt.now); got != tt.want {
				t.Errorf("DueAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDueAt_TimezoneConversion(t *testing.T) {
	// 09:00 in Tokyo is 00:00 UTC the same day.
	p := pref(entity.FrequencyDaily, "09:00", "Asia/Tokyo")
	utcMidnight := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	if !DueAt(p, utcMidnight) {
		t.Error("DueAt() = false at 00:00 UTC for 09:00 Asia/Tokyo, want true")
	}
	if DueAt(p, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)) {
		t.Error("DueAt() = true at 09:00 UTC for 09:00 Asia/Tokyo, want false")
	}
}

func TestDueAt_WeeklyAcrossDateLine(t *testing.T) {
	// Sunday 23:00 UTC is already Monday 09:00 in Auckland (UTC+13 in January).
	p := pref(entity.FrequencyWeekly, "09:00", "Pacific/Auckland")
	sundayLateUTC := time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)
	if !DueAt(p, sundayLateUTC) {
		t.Error("DueAt() = false, want true when local time is Monday 09:00")
	}
}

func TestPartition_KeepsRejectedPreferences(t *testing.T) {
	prefs := []*entity.SchedulePreference{
		pref(entity.FrequencyDaily, "09:00", "UTC"),
		pref(entity.FrequencyDaily, "10:00", "UTC"),
		pref(entity.FrequencyWeekly, "09:00", "UTC"),
	}
	monday9 := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	due, notDue := Partition(prefs, monday9)
	if len(due) != 2 || due[0] != prefs[0] || due[1] != prefs[2] {
		t.Errorf("due = %+v, want the two 09:00 preferences in order", due)
	}
	if len(notDue) != 1 || notDue[0] != prefs[1] {
		t.Errorf("notDue = %+v, want the 10:00 preference", notDue)
	}
}

func TestDue_FiltersAndPreservesOrder(t *testing.T) {
	prefs := []*entity.SchedulePreference{
		pref(entity.FrequencyDaily, "09:00", "UTC"),
		pref(entity.FrequencyDaily, "10:00", "UTC"),
		pref(entity.FrequencyWeekly, "09:00", "UTC"),
	}
	monday9 := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	due := Due(prefs, monday9)
	if len(due) != 2 {
		t.Fatalf("got %d due, want 2", len(due))
	}
	if due[0] != prefs[0] || due[1] != prefs[2] {
		t.Error("due preferences out of order")
	}
}
