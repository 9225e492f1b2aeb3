package enhance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"follow-digest/internal/domain/entity"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
<article>
<h1>Test Article</h1>
<p>This is the opening paragraph of the article. It carries enough prose for
the readability extractor to treat it as real content rather than chrome.</p>
<p>A second paragraph keeps the extraction well above the minimum content
threshold that the algorithm applies to candidate nodes.</p>
</article>
</body>
</html>`

func TestEnhance_BackfillsMissingDescriptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	e := NewReadabilityEnhancer(DefaultConfig(), nil)
	items := []entity.ContentItem{
		{Title: "No description", URL: server.URL + "/post"},
		{Title: "Has description", URL: server.URL + "/other", Description: "keep me"},
	}

	got := e.Enhance(context.Background(), items)
	if got[0].Description == "" {
		t.Error("missing description not backfilled")
	}
	if !strings.Contains(got[0].Description, "opening paragraph") {
		t.Errorf("Description = %q, want extracted article text", got[0].Description)
	}
	if got[1].Description != "keep me" {
		t.Errorf("existing description overwritten: %q", got[1].Description)
	}
}

func TestEnhance_FailureLeavesItemUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := NewReadabilityEnhancer(DefaultConfig(), nil)
	items := []entity.ContentItem{{Title: "Gone", URL: server.URL + "/404"}}

	got := e.Enhance(context.Background(), items)
	if got[0].Description != "" {
		t.Errorf("Description = %q, want empty after fetch failure", got[0].Description)
	}
}

func TestEnhance_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	e := NewReadabilityEnhancer(cfg, nil)

	items := []entity.ContentItem{{Title: "Item", URL: "https://example.com/post"}}
	got := e.Enhance(context.Background(), items)
	if got[0].Description != "" {
		t.Error("disabled enhancer still fetched")
	}
}

func TestEnhance_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("word ", 400)
	page := "<html><body><article><h1>T</h1><p>" + long + "</p></article></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.MaxDescription = 100
	e := NewReadabilityEnhancer(cfg, nil)

	got := e.Enhance(context.Background(), []entity.ContentItem{{URL: server.URL}})
	if len(got[0].Description) > 104 {
		t.Errorf("Description length = %d, want truncated to ~100", len(got[0].Description))
	}
	if got[0].Description != "" && !strings.HasSuffix(got[0].Description, "...") {
		t.Errorf("truncated description missing ellipsis: %q", got[0].Description)
	}
}
