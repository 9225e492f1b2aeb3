// Package schedule decides which digest preferences are due at a given
// instant. The evaluator is pure and memoryless: it looks only at the
// preference and the clock, so re-running it for the same hour gives the
// same answer.
package schedule

import (
	"time"

	"follow-digest/internal/domain/entity"
)

// DueAt reports whether pref should fire at now. The send time matches on
// hour of day only, evaluated in the preference's own timezone; minutes in
// SendTime are ignored. Weekly preferences additionally require Monday,
// monthly the first day of the month. Malformed send times, unknown
// frequencies, and unloadable timezones are never due.
func DueAt(pref *entity.SchedulePreference, now time.Time) bool {
	hour, err := pref.SendHour()
	if err != nil {
		return false
	}
	loc, err := pref.Location()
	if err != nil {
		return false
	}

	local := now.In(loc)
	if local.Hour() != hour {
		return false
	}

	switch pref.Frequency {
	case entity.FrequencyDaily:
		return true
	case entity.FrequencyWeekly:
		return local.Weekday() == time.Monday
	case entity.FrequencyMonthly:
		return local.Day() == 1
	default:
		return false
	}
}

// Partition splits prefs into the ones due at now and the remainder,
// preserving order within each group. The remainder is kept rather than
// dropped so a batch run can record the rejected preferences as skipped.
func Partition(prefs []*entity.SchedulePreference, now time.Time) (due, notDue []*entity.SchedulePreference) {
	for _, p := range prefs {
		if DueAt(p, now) {
			due = append(due, p)
		} else {
			notDue = append(notDue, p)
		}
	}
	return due, notDue
}

// Due filters prefs down to the ones due at now, preserving order.
func Due(prefs []*entity.SchedulePreference, now time.Time) []*entity.SchedulePreference {
	due, _ := Partition(prefs, now)
	return due
}
