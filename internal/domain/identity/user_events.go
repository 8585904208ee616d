package identity

import (
	"github.com/driveshop/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// Identity domain event types
const (
	EventTypeUserRegistered = "identity.user.registered"
	EventTypeSellerApproved = "identity.seller.approved"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Approved bool   `json:"approved"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		Approved:        user.Approved,
	}
}

// SellerApprovedEvent is published when an admin approves a seller account
type SellerApprovedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewSellerApprovedEvent creates a new SellerApprovedEvent
func NewSellerApprovedEvent(user *User) *SellerApprovedEvent {
	return &SellerApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerApproved, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Email:           user.Email,
	}
}
