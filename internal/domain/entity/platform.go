package entity

import (
	"fmt"
	"strings"
)

// Platform identifies an external platform that followings and content
// are aggregated from. The set is closed: adding a platform means adding
// a constant here and registering a fetcher for it.
type Platform string

const (
	PlatformMedium    Platform = "MEDIUM"
	PlatformX         Platform = "X"
	PlatformInstagram Platform = "INSTAGRAM"
)

// Platforms lists all supported platforms in declaration order.
func Platforms() []Platform {
	return []Platform{PlatformMedium, PlatformX, PlatformInstagram}
}

// ParsePlatform parses a platform name (case-insensitive) into a Platform.
// Unknown names return ErrUnsupportedPlatform wrapped with the offending value.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToUpper(strings.TrimSpace(s))) {
	case PlatformMedium:
		return PlatformMedium, nil
	case PlatformX:
		return PlatformX, nil
	case PlatformInstagram:
		return PlatformInstagram, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
}

// String returns the canonical upper-case platform name.
func (p Platform) String() string {
	return string(p)
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformMedium, PlatformX, PlatformInstagram:
		return true
	}
	return false
}
