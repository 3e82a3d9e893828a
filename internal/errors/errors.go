package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no registered user matches the identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when registering an email that already has a password.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCode is the single generic failure for any one-time code problem
	// (missing, wrong, expired, already consumed). Never more specific, to avoid
	// leaking which check failed.
	ErrInvalidCode = errors.New("invalid or expired OTP")
	// ErrTooManyRequests is returned when code issuance is throttled. Distinct
	// from ErrInvalidCode so clients can back off instead of retrying codes.
	ErrTooManyRequests = errors.New("too many OTP requests, try again later")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDeliveryFailed is returned when the code email could not be delivered
	// within the timeout. The code may still have been persisted; a resend
	// simply issues a fresh code.
	ErrDeliveryFailed = errors.New("failed to send OTP email")
	// ErrEmptyOrder is returned for an order with no line items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidTotal is returned when the declared total is not positive or,
	// under the verify policy, does not match the line items.
	ErrInvalidTotal = errors.New("invalid order total")
	// ErrRestaurantNotFound is returned when a restaurant lookup misses.
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OTP")
	case errors.Is(err, ErrTooManyRequests):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "OTP_THROTTLED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDeliveryFailed):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "OTP_DELIVERY_FAILED")
	case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidTotal):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ORDER")
	case errors.Is(err, ErrRestaurantNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RESTAURANT_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
