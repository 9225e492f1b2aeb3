package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency is how often a recipient receives a digest. The set is closed:
// anything outside it is never due (no default-true fallback).
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// SchedulePreference is one recipient's subscription to a platform user's
// activity. The external preference store is the source of truth; this
// system only reads preferences and never mutates them.
type SchedulePreference struct {
	ID        int64
	Recipient string // delivery address (email)
	Platform  Platform
	Username  string // platform username whose followings are digested
	Frequency Frequency
	SendTime  string // "HH:MM"; only the hour component is honored
	Timezone  string // IANA name, e.g. "Asia/Tokyo"
	Enabled   bool
}

// SendHour parses the hour component of SendTime.
// The minute component is intentionally ignored: scheduling is hourly.
func (p *SchedulePreference) SendHour() (int, error) {
	hh, _, ok := strings.Cut(p.SendTime, ":")
	if !ok {
		return 0, &ValidationError{Field: "send_time", Message: fmt.Sprintf("malformed time %q (want HH:MM)", p.SendTime)}
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, &ValidationError{Field: "send_time", Message: fmt.Sprintf("hour out of range in %q", p.SendTime)}
	}
	return hour, nil
}

// Location resolves the preference's IANA timezone.
func (p *SchedulePreference) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, &ValidationError{Field: "timezone", Message: fmt.Sprintf("unknown timezone %q", p.Timezone)}
	}
	return loc, nil
}

// Validate checks the preference fields that this system depends on.
func (p *SchedulePreference) Validate() error {
	if p.Recipient == "" {
		return &ValidationError{Field: "recipient", Message: "recipient is required"}
	}
	if !p.Platform.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, p.Platform)
	}
	if p.Username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if !p.Frequency.Valid() {
		return &ValidationError{Field: "frequency", Message: fmt.Sprintf("invalid frequency %q", p.Frequency)}
	}
	if _, err := p.SendHour(); err != nil {
		return err
	}
	if _, err := p.Location(); err != nil {
		return err
	}
	return nil
}
