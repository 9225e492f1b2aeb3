package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"follow-digest/internal/domain/entity"
	"follow-digest/internal/resilience/circuitbreaker"
	"follow-digest/internal/resilience/retry"

	"golang.org/x/time/rate"
)

// SMTPConfig contains configuration for email digest delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers digests as plain-text email over SMTP.
type SMTPSender struct {
	config  SMTPConfig
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *slog.Logger

	// sendMail is swapped in tests; production uses net/smtp.SendMail.
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an email sender. The rate limit keeps bulk runs
// below typical provider throttles.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		config:   config,
		breaker:  circuitbreaker.New(circuitbreaker.DeliveryConfig("smtp")),
		limiter:  rate.NewLimiter(5.0, 10),
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, digest *entity.Digest) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: smtp rate limit wait: %v", entity.ErrDeliverySend, err)
	}

	msg := s.buildMessage(digest)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	err := retry.WithBackoff(ctx, retry.DeliveryConfig(), func() error {
		_, err := s.breaker.Execute(func() (interface{}, error) {
			return nil, s.sendMail(addr, auth, s.config.From, []string{digest.Recipient}, msg)
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: smtp to %s: %v", entity.ErrDeliverySend, digest.Recipient, err)
	}

	s.logger.DebugContext(ctx, "digest emailed", "recipient", digest.Recipient)
	return nil
}

// buildMessage assembles RFC 5322 headers plus the rendered text body.
func (s *SMTPSender) buildMessage(digest *entity.Digest) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", digest.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", renderSubject(digest))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(renderText(digest))
	return []byte(b.String())
}
