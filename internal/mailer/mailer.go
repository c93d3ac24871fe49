// File: internal/mailer/mailer.go
package mailer

import (
	"context"

	"github.com/RulerDevansh/SecretSanta/internal/config"

	"go.uber.org/zap"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers formatted content to a recipient address. Implementations
// must return an error on any failure, including timeouts; callers treat all
// errors as a failed delivery.
type Mailer interface {
	Deliver(ctx context.Context, msg Message) error
}

// NewMailer builds the configured mailer. Without an SMTP host the log-only
// mailer is returned so local development works without a mail account.
func NewMailer(cfg *config.Config, logger *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST is not set; outbound email will only be logged")
		return &logMailer{logger: logger.Named("LogMailer")}
	}
	return NewSMTPMailer(cfg, logger)
}

// logMailer writes the message to the application log instead of sending it.
type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Deliver(_ context.Context, msg Message) error {
	m.logger.Info("Email delivery skipped (no SMTP configuration)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
