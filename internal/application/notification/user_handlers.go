package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/identity"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/driveshop/backend/internal/infrastructure/mail"
)

// UserRegisteredHandler welcomes new accounts by mail
type UserRegisteredHandler struct {
	mailer *Mailer
	logger *zap.Logger
}

// NewUserRegisteredHandler creates a new UserRegisteredHandler
func NewUserRegisteredHandler(mailer *Mailer, logger *zap.Logger) *UserRegisteredHandler {
	return &UserRegisteredHandler{mailer: mailer, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *UserRegisteredHandler) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle processes a user registered event
func (h *UserRegisteredHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	registered, ok := event.(*identity.UserRegisteredEvent)
	if !ok {
		h.logger.Warn("Unexpected event payload",
			zap.String("event_type", event.EventType()))
		return nil
	}

	h.mailer.Send(registered.Email, mail.TemplateWelcome, mail.TemplateData{
		Name: registered.Username,
	})
	return nil
}

// SellerApprovedHandler tells the seller their shop is open
type SellerApprovedHandler struct {
	mailer *Mailer
	logger *zap.Logger
}

// NewSellerApprovedHandler creates a new SellerApprovedHandler
func NewSellerApprovedHandler(mailer *Mailer, logger *zap.Logger) *SellerApprovedHandler {
	return &SellerApprovedHandler{mailer: mailer, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *SellerApprovedHandler) EventTypes() []string {
	return []string{identity.EventTypeSellerApproved}
}

// Handle processes a seller approved event
func (h *SellerApprovedHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*identity.SellerApprovedEvent)
	if !ok {
		h.logger.Warn("Unexpected event payload",
			zap.String("event_type", event.EventType()))
		return nil
	}

	h.mailer.Send(approved.Email, mail.TemplateSellerApproved, mail.TemplateData{
		Name: approved.Username,
	})
	return nil
}
