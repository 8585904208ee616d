// Package mail delivers notification email over SMTP.
package mail

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/driveshop/backend/internal/infrastructure/config"
)

// Message is a single outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string // plain text
}

// Sender delivers mail messages.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through an SMTP relay using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

var _ Sender = (*SMTPSender)(nil)

// SMTPSenderOption configures an SMTPSender.
type SMTPSenderOption func(*SMTPSender)

// WithLogger sets a custom logger for the sender.
func WithLogger(logger *zap.Logger) SMTPSenderOption {
	return func(s *SMTPSender) {
		s.logger = logger
	}
}

// NewSMTPSender creates a sender from mail configuration.
func NewSMTPSender(cfg *config.MailConfig, opts ...SMTPSenderOption) (*SMTPSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mail configuration is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail host is required")
	}

	sender := &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(sender)
	}

	return sender, nil
}

// Send delivers a single message. Each call opens a fresh SMTP
// connection; notification volume is low enough that pooling is
// not worth the bookkeeping.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("failed to send mail",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}

	s.logger.Debug("mail sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// NoopSender logs messages instead of sending them. It is used when
// mail delivery is disabled in configuration, so the notification
// pipeline behaves identically in development and tests.
type NoopSender struct {
	logger *zap.Logger
}

var _ Sender = (*NoopSender)(nil)

// NewNoopSender creates a sender that only logs.
func NewNoopSender(logger *zap.Logger) *NoopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopSender{logger: logger}
}

// Send logs the message and returns nil.
func (s *NoopSender) Send(msg Message) error {
	s.logger.Info("mail delivery disabled, dropping message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// NewSenderFromConfig returns an SMTP sender when mail is enabled,
// otherwise a logging no-op sender.
func NewSenderFromConfig(cfg *config.MailConfig, logger *zap.Logger) (Sender, error) {
	if cfg == nil || !cfg.Enabled {
		return NewNoopSender(logger), nil
	}
	return NewSMTPSender(cfg, WithLogger(logger))
}
