package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"sync"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Mailer sends a single email message
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// SMTPMailer implements Mailer over plain SMTP
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *zap.Logger
}

// NewSMTPMailer creates a mailer from SMTP configuration
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		logger:   logger.Named("mailer"),
	}
}

// Send delivers a message to a single recipient
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, body string) error {
	m.logger.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)

// LogMailer is a no-op mailer that only logs the message.
// Used when SMTP is disabled (development, tests).
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that logs instead of sending
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mailer")}
}

// Send logs the message without delivering it
func (m *LogMailer) Send(_ context.Context, to string, subject string, body string) error {
	m.logger.Info("Email suppressed (SMTP disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}

var _ Mailer = (*LogMailer)(nil)

// RecordingMailer captures sent messages for assertions in tests
type RecordingMailer struct {
	mu       sync.Mutex
	Messages []RecordedMessage
	Err      error
}

// RecordedMessage is a single captured email
type RecordedMessage struct {
	To      string
	Subject string
	Body    string
}

// NewRecordingMailer creates an empty recording mailer
func NewRecordingMailer() *RecordingMailer {
	return &RecordingMailer{}
}

// Send records the message
func (m *RecordingMailer) Send(_ context.Context, to string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, RecordedMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the captured messages
func (m *RecordingMailer) Sent() []RecordedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}

var _ Mailer = (*RecordingMailer)(nil)
