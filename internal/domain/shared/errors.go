package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// Marketplace-specific domain errors
var (
	ErrEmptyCart            = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrListingInactive      = NewDomainError("LISTING_INACTIVE", "Listing is not available for sale")
	ErrNotPurchased         = NewDomainError("NOT_PURCHASED", "Only buyers of this vehicle can review it")
	ErrAlreadyReviewed      = NewDomainError("ALREADY_REVIEWED", "You have already reviewed this vehicle")
	ErrSellerNotApproved    = NewDomainError("SELLER_NOT_APPROVED", "Seller account is pending approval")
	ErrCheckoutStateMissing = NewDomainError("CHECKOUT_STATE_MISSING", "Checkout information is incomplete or expired")
)
