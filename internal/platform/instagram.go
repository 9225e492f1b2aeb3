package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"follow-digest/internal/domain/entity"
)

const defaultInstagramBaseURL = "https://www.instagram.com"

// InstagramFetcher fetches followings and posts through Instagram's web
// profile JSON endpoints, the same surface the logged-out web client uses.
type InstagramFetcher struct {
	client  *http.Client
	baseURL string
}

// NewInstagramFetcher creates an InstagramFetcher with the given HTTP client.
func NewInstagramFetcher(client *http.Client) *InstagramFetcher {
	return &InstagramFetcher{client: client, baseURL: defaultInstagramBaseURL}
}

// NewInstagramFetcherWithBaseURL is used by tests to point at a local server.
func NewInstagramFetcherWithBaseURL(client *http.Client, baseURL string) *InstagramFetcher {
	return &InstagramFetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Platform implements Fetcher.
func (ig *InstagramFetcher) Platform() entity.Platform {
	return entity.PlatformInstagram
}

// igProfileResponse mirrors the subset of the web_profile_info payload we read.
type igProfileResponse struct {
	Data struct {
		User struct {
			FullName      string `json:"full_name"`
			Username      string `json:"username"`
			ProfilePicURL string `json:"profile_pic_url"`
			EdgeFollow    struct {
				Edges []struct {
					Node igUserNode `json:"node"`
				} `json:"edges"`
			} `json:"edge_follow"`
			EdgeOwnerToTimelineMedia struct {
				Edges []struct {
					Node igMediaNode `json:"node"`
				} `json:"edges"`
			} `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
}

type igUserNode struct {
	FullName      string `json:"full_name"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profile_pic_url"`
}

type igMediaNode struct {
	Shortcode          string `json:"shortcode"`
	DisplayURL         string `json:"display_url"`
	TakenAtTimestamp   int64  `json:"taken_at_timestamp"`
	EdgeMediaToCaption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
}

// UserExists probes the profile info endpoint.
func (ig *InstagramFetcher) UserExists(ctx context.Context, username string) (bool, error) {
	resp, err := ig.get(ctx, ig.profileInfoURL(username))
	if err != nil {
		return false, fmt.Errorf("check instagram user %q: %w", username, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check instagram user %q: unexpected status %d", username, resp.StatusCode)
	}
}

// ListFollowings reads the follow edges from the profile payload.
func (ig *InstagramFetcher) ListFollowings(ctx context.Context, username string) ([]entity.FollowingUser, error) {
	profile, err := ig.fetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	edges := profile.Data.User.EdgeFollow.Edges
	followings := make([]entity.FollowingUser, 0, len(edges))
	for _, e := range edges {
		if e.Node.Username == "" {
			continue
		}
		name := e.Node.FullName
		if name == "" {
			name = e.Node.Username
		}
		followings = append(followings, entity.FollowingUser{
			FullName:          name,
			Username:          e.Node.Username,
			ProfileURL:        ig.baseURL + "/" + e.Node.Username + "/",
			ProfilePictureURL: e.Node.ProfilePicURL,
		})
	}
	return dedupeFollowings(followings), nil
}

// ListContents reads the timeline media edges from the profile payload.
func (ig *InstagramFetcher) ListContents(ctx context.Context, username string, since entity.SinceWindow) ([]entity.ContentItem, error) {
	profile, err := ig.fetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	edges := profile.Data.User.EdgeOwnerToTimelineMedia.Edges
	items := make([]entity.ContentItem, 0, len(edges))
	for _, e := range edges {
		if e.Node.Shortcode == "" {
			continue
		}
		caption := ""
		if len(e.Node.EdgeMediaToCaption.Edges) > 0 {
			caption = e.Node.EdgeMediaToCaption.Edges[0].Node.Text
		}
		item := entity.ContentItem{
			Title:       truncateTitle(caption),
			URL:         ig.baseURL + "/p/" + e.Node.Shortcode + "/",
			ImageURL:    e.Node.DisplayURL,
			Description: caption,
		}
		if e.Node.TakenAtTimestamp > 0 {
			t := time.Unix(e.Node.TakenAtTimestamp, 0).UTC()
			item.PublishedAt = &t
		}
		items = append(items, item)
	}

	return filterSince(items, since, time.Now()), nil
}

func (ig *InstagramFetcher) fetchProfile(ctx context.Context, username string) (*igProfileResponse, error) {
	resp, err := ig.get(ctx, ig.profileInfoURL(username))
	if err != nil {
		return nil, fmt.Errorf("fetch instagram profile %q: %w", username, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch instagram profile %q: unexpected status %d", username, resp.StatusCode)
	}

	var profile igProfileResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode instagram profile %q: %w", username, err)
	}
	return &profile, nil
}

func (ig *InstagramFetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "application/json")
	return ig.client.Do(req)
}

func (ig *InstagramFetcher) profileInfoURL(username string) string {
	return fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s", ig.baseURL, username)
}
