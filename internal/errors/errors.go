package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCustomerNotFound is returned when no account has the requested id.
	ErrCustomerNotFound = errors.New("Customer not found")
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("Product not found")
	// ErrInsufficientStock is returned when an order asks for more than is in stock.
	ErrInsufficientStock = errors.New("Insufficient stock")
	// ErrInvalidQuantity is returned when an order quantity is not positive.
	ErrInvalidQuantity = errors.New("Quantity must be a positive integer")
	// ErrEmailTaken is returned when an update would collide with another account's email.
	ErrEmailTaken = errors.New("Email address already in use")
	// ErrProductHasOrders is returned when deleting a product that orders still reference.
	ErrProductHasOrders = errors.New("Product has orders")
	// ErrInvalidProduct is returned for a negative price or stock level.
	ErrInvalidProduct = errors.New("Price and stock must not be negative")
)

// Client-facing messages shared by handlers and the error boundary.
const (
	MsgUnauthorized     = "Unauthorized"
	MsgMethodNotAllowed = "Method not allowed"
	MsgNotFound         = "Not found"
	MsgInternal         = "An error occurred while processing your request"
)

// Error kinds. They travel in ErrorResponse.Code for logs and never change
// the client-visible message.
const (
	KindValidation       = "VALIDATION"
	KindAuthentication   = "AUTHENTICATION"
	KindConflict         = "CONFLICT"
	KindNotFound         = "NOT_FOUND"
	KindMethodNotAllowed = "METHOD_NOT_ALLOWED"
	KindInternal         = "INTERNAL"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Code    string          `json:"-"`
	Missing map[string]bool `json:"missing,omitempty"`
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

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so that internal detail never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCustomerNotFound.Error(), KindNotFound)
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProductNotFound.Error(), KindNotFound)
	case errors.Is(err, ErrInsufficientStock):
		return NewHTTPError(http.StatusConflict, ErrInsufficientStock.Error(), KindConflict)
	case errors.Is(err, ErrProductHasOrders):
		return NewHTTPError(http.StatusConflict, ErrProductHasOrders.Error(), KindConflict)
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), KindConflict)
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidQuantity.Error(), KindValidation)
	case errors.Is(err, ErrInvalidProduct):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidProduct.Error(), KindValidation)
	default:
		return NewHTTPError(http.StatusInternalServerError, MsgInternal, KindInternal)
	}
}
