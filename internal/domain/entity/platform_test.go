package entity

import (
	"errors"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Platform
		wantErr bool
	}{
		{name: "medium upper", input: "MEDIUM", want: PlatformMedium},
		{name: "medium lower", input: "medium", want: PlatformMedium},
		{name: "x", input: "X", want: PlatformX},
		{name: "instagram mixed case", input: "Instagram", want: PlatformInstagram},
		{name: "surrounding whitespace", input: "  x  ", want: PlatformX},
		{name: "unknown platform", input: "TIKTOK", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePlatform(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Errorf("error = %v, want ErrUnsupportedPlatform", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlatform(%q) err = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlatform_Valid(t *testing.T) {
	for _, p := range Platforms() {
		if !p.Valid() {
			t.Errorf("%v should be valid", p)
		}
	}
	if Platform("FACEBOOK").Valid() {
		t.Error("unknown platform should not be valid")
	}
	if Platform("").Valid() {
		t.Error("empty platform should not be valid")
	}
}
