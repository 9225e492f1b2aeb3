package entity

import (
	"sort"
	"time"
)

// DigestSection holds the content gathered for one followed account.
// A section with no contents is kept in the digest so the recipient can
// see the account was covered.
type DigestSection struct {
	Platform Platform      `json:"platform"`
	Username string        `json:"username"`
	Contents []ContentItem `json:"contents"`
}

// Digest is the assembled payload for one recipient in one batch run.
type Digest struct {
	Recipient   string          `json:"recipient"`
	Frequency   Frequency       `json:"frequency"`
	Sections    []DigestSection `json:"sections"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ContentCount returns the total number of items across all sections.
func (d *Digest) ContentCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Contents)
	}
	return n
}

// Platforms returns the distinct platforms covered, sorted.
func (d *Digest) Platforms() []string {
	seen := make(map[string]struct{}, len(d.Sections))
	for _, s := range d.Sections {
		seen[string(s.Platform)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
