// File: internal/mailer/smtp.go
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/config"

	"go.uber.org/zap"
)

const smtpDialTimeout = 10 * time.Second

// SMTPMailer sends mail over a plain SMTP session upgraded with STARTTLS
// when the server offers it.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	logger   *zap.Logger
}

// NewSMTPMailer builds a mailer from the SMTP_* configuration values.
func NewSMTPMailer(cfg *config.Config, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFromAddress(),
		fromName: cfg.SMTPFromName,
		logger:   logger.Named("SMTPMailer"),
	}
}

// Deliver opens a fresh SMTP session per message. Session deadlines are
// derived from the context so a stalled server cannot hang the caller.
func (m *SMTPMailer) Deliver(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.host, fmt.Sprintf("%d", m.port))

	conn, err := net.DialTimeout("tcp", addr, smtpDialTimeout)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}

	deadline := time.Now().Add(smtpDialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("smtp set deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(m.encode(msg)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	if err := client.Quit(); err != nil {
		m.logger.Debug("SMTP quit returned an error", zap.Error(err))
	}

	m.logger.Info("Email delivered", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// encode renders the RFC 5322 message. When both parts are present the body
// is multipart/alternative so text-only clients still get something readable.
func (m *SMTPMailer) encode(msg Message) []byte {
	var b strings.Builder

	fromHeader := m.from
	if m.fromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.fromName), m.from)
	}

	fmt.Fprintf(&b, "From: %s\r\n", fromHeader)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTML != "" && msg.Text != "":
		const boundary = "secret-santa-alt"
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.Text)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTML)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	case msg.HTML != "":
		fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", msg.HTML)
	default:
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", msg.Text)
	}

	return []byte(b.String())
}
