package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"follow-digest/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const defaultMediumBaseURL = "https://medium.com"

// MediumFetcher fetches followings and stories from Medium. Stories come
// from the per-user RSS feed (gofeed); followings are scraped from the
// public following page with goquery.
type MediumFetcher struct {
	client  *http.Client
	baseURL string
}

// NewMediumFetcher creates a MediumFetcher with the given HTTP client.
func NewMediumFetcher(client *http.Client) *MediumFetcher {
	return &MediumFetcher{client: client, baseURL: defaultMediumBaseURL}
}

// NewMediumFetcherWithBaseURL is used by tests to point at a local server.
func NewMediumFetcherWithBaseURL(client *http.Client, baseURL string) *MediumFetcher {
	return &MediumFetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Platform implements Fetcher.
func (m *MediumFetcher) Platform() entity.Platform {
	return entity.PlatformMedium
}

// UserExists checks the user's RSS feed endpoint. Medium serves 404 for
// unknown usernames, which is a confirmed miss rather than an error.
func (m *MediumFetcher) UserExists(ctx context.Context, username string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.feedURL(username), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("check medium user %q: %w", username, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check medium user %q: unexpected status %d", username, resp.StatusCode)
	}
}

// ListFollowings scrapes the public following page.
func (m *MediumFetcher) ListFollowings(ctx context.Context, username string) ([]entity.FollowingUser, error) {
	url := fmt.Sprintf("%s/@%s/following", m.baseURL, username)
	doc, err := fetchDocument(ctx, m.client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch medium following page: %w", err)
	}

	var followings []entity.FollowingUser
	doc.Find("div[data-testid='followList'] a[href^='/@'], a[data-testid='userLink']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		handle := strings.TrimPrefix(strings.Trim(href, "/"), "@")
		if handle == "" || handle == username {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			name = handle
		}
		avatar, _ := sel.Find("img").Attr("src")
		followings = append(followings, entity.FollowingUser{
			FullName:          name,
			Username:          handle,
			ProfileURL:        m.baseURL + "/@" + handle,
			ProfilePictureURL: avatar,
		})
	})

	return dedupeFollowings(followings), nil
}

// ListContents parses the user's RSS feed and filters by the since window.
func (m *MediumFetcher) ListContents(ctx context.Context, username string, since entity.SinceWindow) ([]entity.ContentItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = fetchUserAgent
	fp.Client = m.client

	feed, err := fp.ParseURLWithContext(m.feedURL(username), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse medium feed for %q: %w", username, err)
	}

	items := make([]entity.ContentItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := entity.ContentItem{
			Title:       it.Title,
			URL:         it.Link,
			Description: strings.TrimSpace(it.Description),
		}
		if it.PublishedParsed != nil {
			t := *it.PublishedParsed
			item.PublishedAt = &t
		}
		if it.Image != nil {
			item.ImageURL = it.Image.URL
		}
		items = append(items, item)
	}

	return filterSince(items, since, time.Now()), nil
}

func (m *MediumFetcher) feedURL(username string) string {
	return fmt.Sprintf("%s/feed/@%s", m.baseURL, username)
}
