package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"follow-digest/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchUserAgent = "FollowDigestBot/1.0"

	// maxBodySize caps response bodies read from platforms.
	maxBodySize = 10 * 1024 * 1024 // 10MB
)

// fetchDocument retrieves a URL and parses the body as an HTML document.
// The body is size-capped before parsing.
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// dedupeFollowings removes duplicate usernames while preserving order.
// Following pages repeat anchors (avatar link + name link per row).
func dedupeFollowings(in []entity.FollowingUser) []entity.FollowingUser {
	seen := make(map[string]bool, len(in))
	out := make([]entity.FollowingUser, 0, len(in))
	for _, f := range in {
		if seen[f.Username] {
			continue
		}
		seen[f.Username] = true
		out = append(out, f)
	}
	return out
}
