package notification

import (
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/infrastructure/mail"
)

// Mailer renders a template and hands it to the sender. A failing
// recipient is logged and never fails the handler batch; the outbox
// retries the whole event only on handler errors.
type Mailer struct {
	sender    mail.Sender
	templates *mail.Templates
	logger    *zap.Logger
}

// NewMailer creates a new mailer
func NewMailer(sender mail.Sender, templates *mail.Templates, logger *zap.Logger) *Mailer {
	return &Mailer{
		sender:    sender,
		templates: templates,
		logger:    logger,
	}
}

// Send renders the named template and delivers it to one recipient
func (m *Mailer) Send(to, templateName string, data mail.TemplateData) {
	subject, body, err := m.templates.Render(templateName, data)
	if err != nil {
		m.logger.Error("Failed to render mail template",
			zap.String("template", templateName),
			zap.Error(err))
		return
	}

	if err := m.sender.Send(mail.Message{To: to, Subject: subject, Body: body}); err != nil {
		m.logger.Error("Failed to send mail",
			zap.String("template", templateName),
			zap.String("to", to),
			zap.Error(err))
	}
}
