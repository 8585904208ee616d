package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// shared domain errors
	"INVALID_INPUT":        http.StatusBadRequest,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,

	// identity
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"USERNAME_TAKEN":      http.StatusConflict,
	"EMAIL_TAKEN":         http.StatusConflict,
	"INVALID_ROLE":        http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"ALREADY_APPROVED":    http.StatusConflict,
	"NOT_A_SELLER":        http.StatusUnprocessableEntity,
	"SELLER_NOT_APPROVED": http.StatusForbidden,

	// catalog
	"CATEGORY_NOT_FOUND":      http.StatusNotFound,
	"CATEGORY_EXISTS":         http.StatusConflict,
	"LISTING_INACTIVE":        http.StatusUnprocessableEntity,
	"LISTING_GONE":            http.StatusUnprocessableEntity,
	"NOT_PURCHASED":           http.StatusForbidden,
	"ALREADY_REVIEWED":        http.StatusConflict,
	"DISALLOWED_CONTENT_TYPE": http.StatusBadRequest,
	"INVALID_STORAGE_KEY":     http.StatusBadRequest,
	"UPLOAD_NOT_FOUND":        http.StatusUnprocessableEntity,
	"UPLOAD_URL_FAILED":       http.StatusBadGateway,
	"STORAGE_CHECK_FAILED":    http.StatusBadGateway,

	// ordering
	"EMPTY_CART":                http.StatusUnprocessableEntity,
	"CHECKOUT_STATE_MISSING":    http.StatusUnprocessableEntity,
	"INVALID_QUANTITY":          http.StatusBadRequest,
	"INVALID_SHIPPING":          http.StatusBadRequest,
	"INVALID_CUSTOMER":          http.StatusBadRequest,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"ORDER_NOT_PENDING":         http.StatusUnprocessableEntity,
	"CANCEL_REASON_REQUIRED":    http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes default to 400: domain validation errors carry many
// specific codes (INVALID_PRICE, INVALID_YEAR, ...) that are all
// client mistakes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
