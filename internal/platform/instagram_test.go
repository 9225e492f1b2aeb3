package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"follow-digest/internal/domain/entity"
)

const igProfileJSON = `{
  "data": {
    "user": {
      "full_name": "Alice",
      "username": "alice",
      "profile_pic_url": "https://img.example/alice.jpg",
      "edge_follow": {
        "edges": [
          {"node": {"full_name": "Bob Builder", "username": "bob", "profile_pic_url": "https://img.example/bob.jpg"}},
          {"node": {"full_name": "", "username": "carol", "profile_pic_url": ""}},
          {"node": {"full_name": "Nameless", "username": "", "profile_pic_url": ""}}
        ]
      },
      "edge_owner_to_timeline_media": {
        "edges": [
          {"node": {
            "shortcode": "C1abc",
            "display_url": "https://img.example/post1.jpg",
            "taken_at_timestamp": 1704700800,
            "edge_media_to_caption": {"edges": [{"node": {"text": "Sunrise over the bay"}}]}
          }},
          {"node": {
            "shortcode": "C2def",
            "display_url": "https://img.example/post2.jpg",
            "taken_at_timestamp": 0,
            "edge_media_to_caption": {"edges": []}
          }}
        ]
      }
    }
  }
}`

func newInstagramTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/web_profile_info/" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("username") {
		case "alice":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(igProfileJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstagramFetcher_UserExists(t *testing.T) {
	srv := newInstagramTestServer(t)
	f := NewInstagramFetcherWithBaseURL(srv.Client(), srv.URL)

	ok, err := f.UserExists(context.Background(), "alice")
	if err != nil || !ok {
		t.Errorf("UserExists(alice) = %v, %v; want true, nil", ok, err)
	}

	ok, err = f.UserExists(context.Background(), "ghost")
	if err != nil || ok {
		t.Errorf("UserExists(ghost) = %v, %v; want false, nil", ok, err)
	}
}

func TestInstagramFetcher_ListFollowings(t *testing.T) {
	srv := newInstagramTestServer(t)
	f := NewInstagramFetcherWithBaseURL(srv.Client(), srv.URL)

	followings, err := f.ListFollowings(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListFollowings err = %v", err)
	}
	// The empty-username node is skipped.
	if len(followings) != 2 {
		t.Fatalf("got %d followings, want 2: %+v", len(followings), followings)
	}
	if followings[0].FullName != "Bob Builder" {
		t.Errorf("full name = %q", followings[0].FullName)
	}
	// Full name falls back to the username when blank.
	if followings[1].FullName != "carol" {
		t.Errorf("fallback full name = %q, want carol", followings[1].FullName)
	}
}

func TestInstagramFetcher_ListContents(t *testing.T) {
	srv := newInstagramTestServer(t)
	f := NewInstagramFetcherWithBaseURL(srv.Client(), srv.URL)

	items, err := f.ListContents(context.Background(), "alice", entity.SinceAll)
	if err != nil {
		t.Fatalf("ListContents err = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].URL != srv.URL+"/p/C1abc/" {
		t.Errorf("url = %q", items[0].URL)
	}
	want := time.Unix(1704700800, 0).UTC()
	if items[0].PublishedAt == nil || !items[0].PublishedAt.Equal(want) {
		t.Errorf("published_at = %v, want %v", items[0].PublishedAt, want)
	}
	// Captionless posts keep an empty title but remain listed.
	if items[1].Title != "" {
		t.Errorf("captionless title = %q, want empty", items[1].Title)
	}
	if items[1].PublishedAt != nil {
		t.Error("zero timestamp should yield nil published_at")
	}
}
