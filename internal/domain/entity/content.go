package entity

import (
	"fmt"
	"strings"
	"time"
)

// ContentItem is a single published piece of content (post, article, story)
// from a followed account. There is no stable identity beyond the URL;
// duplicates across fetches are tolerated.
type ContentItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Description string     `json:"description,omitempty"`
}

// SinceWindow restricts content retrieval to a recency window. It doubles as
// the filter dimension in the contents cache key, so values must stay stable.
type SinceWindow string

const (
	SinceAll        SinceWindow = "all"
	SinceToday      SinceWindow = "today"
	SinceLast7Days  SinceWindow = "last_7_days"
	SinceLast30Days SinceWindow = "last_30_days"
)

// ParseSinceWindow parses a since query value. Empty input defaults to
// SinceAll; unknown values return a ValidationError.
func ParseSinceWindow(s string) (SinceWindow, error) {
	switch SinceWindow(strings.ToLower(strings.TrimSpace(s))) {
	case "", SinceAll:
		return SinceAll, nil
	case SinceToday:
		return SinceToday, nil
	case SinceLast7Days:
		return SinceLast7Days, nil
	case SinceLast30Days:
		return SinceLast30Days, nil
	default:
		return "", &ValidationError{
			Field:   "since",
			Message: fmt.Sprintf("invalid window %q (must be all, today, last_7_days, or last_30_days)", s),
		}
	}
}

// CutoffFrom returns the earliest publication time included in the window,
// relative to now. SinceAll returns the zero time (no cutoff).
func (w SinceWindow) CutoffFrom(now time.Time) time.Time {
	switch w {
	case SinceToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case SinceLast7Days:
		return now.AddDate(0, 0, -7)
	case SinceLast30Days:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// String returns the wire value of the window.
func (w SinceWindow) String() string {
	return string(w)
}
