package entity

import "testing"

func validPreference() SchedulePreference {
	return SchedulePreference{
		ID:        1,
		Recipient: "reader@example.com",
		Platform:  PlatformMedium,
		Username:  "alice",
		Frequency: FrequencyDaily,
		SendTime:  "09:00",
		Timezone:  "Asia/Tokyo",
		Enabled:   true,
	}
}

func TestSchedulePreference_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SchedulePreference)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *SchedulePreference) {}},
		{name: "missing recipient", mutate: func(p *SchedulePreference) { p.Recipient = "" }, wantErr: true},
		{name: "bad platform", mutate: func(p *SchedulePreference) { p.Platform = "MYSPACE" }, wantErr: true},
		{name: "missing username", mutate: func(p *SchedulePreference) { p.Username = "" }, wantErr: true},
		{name: "bad frequency", mutate: func(p *SchedulePreference) { p.Frequency = "hourly" }, wantErr: true},
		{name: "bad send time", mutate: func(p *SchedulePreference) { p.SendTime = "nine" }, wantErr: true},
		{name: "hour out of range", mutate: func(p *SchedulePreference) { p.SendTime = "25:00" }, wantErr: true},
		{name: "bad timezone", mutate: func(p *SchedulePreference) { p.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPreference()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSchedulePreference_SendHour(t *testing.T) {
	p := validPreference()

	p.SendTime = "09:00"
	if h, err := p.SendHour(); err != nil || h != 9 {
		t.Errorf("SendHour(09:00) = %d, %v; want 9, nil", h, err)
	}

	// Minute component is ignored by design; only the hour matters.
	p.SendTime = "23:45"
	if h, err := p.SendHour(); err != nil || h != 23 {
		t.Errorf("SendHour(23:45) = %d, %v; want 23, nil", h, err)
	}

	p.SendTime = "0:30"
	if h, err := p.SendHour(); err != nil || h != 0 {
		t.Errorf("SendHour(0:30) = %d, %v; want 0, nil", h, err)
	}
}
