// Package enhance backfills missing content descriptions by fetching the
// item's page and running Mozilla's Readability extraction over it. Strictly
// best effort: any failure leaves the item as it came from the platform.
package enhance

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/resilience/circuitbreaker"

	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
)

// Config controls description extraction.
type Config struct {
	// Enabled toggles enhancement without redeployment.
	Enabled bool

	// Timeout bounds each page fetch.
	Timeout time.Duration

	// Parallelism caps concurrent page fetches per Enhance call.
	Parallelism int

	// MaxBodySize caps the HTML read per page, enforced while reading.
	MaxBodySize int64

	// MaxDescription truncates extracted text to this many bytes.
	MaxDescription int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Timeout:        10 * time.Second,
		Parallelism:    5,
		MaxBodySize:    10 << 20,
		MaxDescription: 500,
	}
}

// ReadabilityEnhancer extracts article descriptions for content items that
// arrived without one. Safe for concurrent use.
type ReadabilityEnhancer struct {
	config  Config
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewReadabilityEnhancer(config Config, logger *slog.Logger) *ReadabilityEnhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadabilityEnhancer{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("content-enhance")),
		logger:  logger,
	}
}

// Enhance fills Description on items that lack one. The input slice is
// returned with items updated in place; items keep their original values on
// any fetch or extraction failure.
func (e *ReadabilityEnhancer) Enhance(ctx context.Context, items []entity.ContentItem) []entity.ContentItem {
	if !e.config.Enabled || len(items) == 0 {
		return items
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.config.Parallelism)
	for i := range items {
		if items[i].Description != "" || items[i].URL == "" {
			continue
		}
		eg.Go(func() error {
			desc, err := e.extract(egCtx, items[i].URL)
			if err != nil {
				e.logger.DebugContext(egCtx, "description extraction failed",
					"url", items[i].URL, "error", err)
				return nil
			}
			items[i].Description = desc
			return nil
		})
	}
	// Goroutines never return errors; failures degrade per item.
	_ = eg.Wait()
	return items
}

func (e *ReadabilityEnhancer) extract(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("scheme %q not allowed", parsed.Scheme)
	}

	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.fetchAndParse(ctx, parsed)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (e *ReadabilityEnhancer) fetchAndParse(ctx context.Context, pageURL *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "FollowDigestBot/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, e.config.MaxBodySize)
	article, err := readability.FromReader(body, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	desc := strings.TrimSpace(article.Excerpt)
	if desc == "" {
		desc = strings.TrimSpace(article.TextContent)
	}
	if desc == "" {
		return "", fmt.Errorf("no extractable text")
	}
	if len(desc) > e.config.MaxDescription {
		desc = desc[:e.config.MaxDescription]
		if idx := strings.LastIndex(desc, " "); idx > 0 {
			desc = desc[:idx]
		}
		desc += "..."
	}
	return desc, nil
}
