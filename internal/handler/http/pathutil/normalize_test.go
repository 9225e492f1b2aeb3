package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"/followings/platforms/MEDIUM/users/alice",
			"/followings/platforms/:platform/users/:username",
		},
		{
			"/contents/platforms/X/users/bob",
			"/contents/platforms/:platform/users/:username",
		},
		{"/digest/run", "/digest/run"},
		{"/analytics/summary", "/analytics/summary"},
		{"/healthz", "/healthz"},
		{"/followings/platforms/", "/followings/platforms/"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizePath(tt.in); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
