package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"follow-digest/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

const defaultXBaseURL = "https://x.com"

// XFetcher fetches followings and posts from X via the public syndication
// HTML surface. Authenticated GraphQL endpoints are deliberately avoided:
// this fetcher only sees what a logged-out request sees.
type XFetcher struct {
	client  *http.Client
	baseURL string
}

// NewXFetcher creates an XFetcher with the given HTTP client.
func NewXFetcher(client *http.Client) *XFetcher {
	return &XFetcher{client: client, baseURL: defaultXBaseURL}
}

// NewXFetcherWithBaseURL is used by tests to point at a local server.
func NewXFetcherWithBaseURL(client *http.Client, baseURL string) *XFetcher {
	return &XFetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Platform implements Fetcher.
func (x *XFetcher) Platform() entity.Platform {
	return entity.PlatformX
}

// UserExists probes the profile page.
func (x *XFetcher) UserExists(ctx context.Context, username string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, x.baseURL+"/"+username, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := x.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("check x user %q: %w", username, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check x user %q: unexpected status %d", username, resp.StatusCode)
	}
}

// ListFollowings scrapes the following page.
func (x *XFetcher) ListFollowings(ctx context.Context, username string) ([]entity.FollowingUser, error) {
	doc, err := fetchDocument(ctx, x.client, fmt.Sprintf("%s/%s/following", x.baseURL, username))
	if err != nil {
		return nil, fmt.Errorf("fetch x following page: %w", err)
	}

	var followings []entity.FollowingUser
	doc.Find("div[data-testid='UserCell']").Each(func(_ int, cell *goquery.Selection) {
		link := cell.Find("a[href^='/']").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		handle := strings.Trim(href, "/")
		if handle == "" || strings.Contains(handle, "/") {
			return
		}
		name := strings.TrimSpace(cell.Find("span").First().Text())
		if name == "" {
			name = handle
		}
		avatar, _ := cell.Find("img").Attr("src")
		followings = append(followings, entity.FollowingUser{
			FullName:          name,
			Username:          handle,
			ProfileURL:        x.baseURL + "/" + handle,
			ProfilePictureURL: avatar,
		})
	})

	return dedupeFollowings(followings), nil
}

// ListContents scrapes the user's recent posts from the profile timeline.
func (x *XFetcher) ListContents(ctx context.Context, username string, since entity.SinceWindow) ([]entity.ContentItem, error) {
	doc, err := fetchDocument(ctx, x.client, x.baseURL+"/"+username)
	if err != nil {
		return nil, fmt.Errorf("fetch x profile page: %w", err)
	}

	var items []entity.ContentItem
	doc.Find("article[data-testid='tweet']").Each(func(_ int, art *goquery.Selection) {
		text := strings.TrimSpace(art.Find("div[data-testid='tweetText']").Text())
		href, _ := art.Find("a[href*='/status/']").Attr("href")
		if href == "" {
			return
		}
		item := entity.ContentItem{
			Title:       truncateTitle(text),
			URL:         x.baseURL + href,
			Description: text,
		}
		if ts, ok := art.Find("time").Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				item.PublishedAt = &t
			}
		}
		if img, ok := art.Find("div[data-testid='tweetPhoto'] img").Attr("src"); ok {
			item.ImageURL = img
		}
		items = append(items, item)
	})

	return filterSince(items, since, time.Now()), nil
}

const maxPostTitleLength = 80

// truncateTitle derives a title from post text. Posts have no title of
// their own, so the first line is cut to a headline-sized string.
func truncateTitle(text string) string {
	if line, _, ok := strings.Cut(text, "\n"); ok {
		text = line
	}
	runes := []rune(text)
	if len(runes) <= maxPostTitleLength {
		return text
	}
	return string(runes[:maxPostTitleLength-3]) + "..."
}
