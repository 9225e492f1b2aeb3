package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/resilience/circuitbreaker"
	"follow-digest/internal/resilience/retry"

	"golang.org/x/time/rate"
)

const webhookMaxErrorBody = 4 << 10

// WebhookConfig contains configuration for webhook digest delivery.
type WebhookConfig struct {
	// URL receives a POST with the digest payload per recipient.
	URL string

	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration
}

// WebhookSender posts digests as JSON to a configured endpoint, typically
// an internal notification relay that fans out to chat or push channels.
type WebhookSender struct {
	config     WebhookConfig
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// webhookPayload is the wire format posted for each digest.
type webhookPayload struct {
	Recipient string         `json:"recipient"`
	Summary   string         `json:"summary"`
	Body      string         `json:"body"`
	Digest    *entity.Digest `json:"digest"`
}

// NewWebhookSender creates a webhook sender. Rate limited to 1 req/s with a
// small burst, matching common incoming-webhook limits.
func NewWebhookSender(config WebhookConfig, logger *slog.Logger) *WebhookSender {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &WebhookSender{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    circuitbreaker.New(circuitbreaker.DeliveryConfig("webhook")),
		limiter:    rate.NewLimiter(1.0, 3),
		logger:     logger,
	}
}

func (s *WebhookSender) Name() string { return "webhook" }

func (s *WebhookSender) Send(ctx context.Context, digest *entity.Digest) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: webhook rate limit wait: %v", entity.ErrDeliverySend, err)
	}

	payload := webhookPayload{
		Recipient: digest.Recipient,
		Summary:   renderSubject(digest),
		Body:      renderText(digest),
		Digest:    digest,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal webhook payload: %v", entity.ErrDeliverySend, err)
	}

	err = retry.WithBackoff(ctx, retry.DeliveryConfig(), func() error {
		_, err := s.breaker.Execute(func() (interface{}, error) {
			return nil, s.post(ctx, jsonData)
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: webhook to %s: %v", entity.ErrDeliverySend, digest.Recipient, err)
	}

	s.logger.DebugContext(ctx, "digest posted", "recipient", digest.Recipient)
	return nil
}

// post performs one attempt. Non-2xx statuses become retry.HTTPError so the
// backoff policy can tell server hiccups from permanent client errors.
func (s *WebhookSender) post(ctx context.Context, jsonData []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, webhookMaxErrorBody))
	return &retry.HTTPError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}
