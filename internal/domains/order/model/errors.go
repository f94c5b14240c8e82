package model

import "fmt"

// OrderError is a coded business error from the order lifecycle
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// WithCause returns a copy of the coded error carrying the underlying cause
func (e *OrderError) WithCause(err error) *OrderError {
	return &OrderError{Code: e.Code, Message: e.Message, Err: err}
}

// NewOrderError creates a coded order error
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{Code: code, Message: message, Err: err}
}

// Error codes for order operations
var (
	ErrOrderNotFound        = NewOrderError("ORD001", "order not found", nil)
	ErrEmptyCart            = NewOrderError("ORD002", "cart is empty", nil)
	ErrInvalidEventDate     = NewOrderError("ORD003", "event date must be in the future", nil)
	ErrInvalidTransition    = NewOrderError("ORD004", "invalid order status transition", nil)
	ErrOrderNotCancellable  = NewOrderError("ORD005", "order can no longer be cancelled", nil)
	ErrOrderCodeAllocation  = NewOrderError("ORD006", "failed to allocate order code", nil)
	ErrNotOrderOwner        = NewOrderError("ORD007", "order belongs to another user", nil)
	ErrInvalidPaymentMethod = NewOrderError("ORD008", "unsupported payment method", nil)
	ErrPaymentNotPending    = NewOrderError("ORD009", "payment is not in pending state", nil)
	ErrOrderTerminal        = NewOrderError("ORD010", "order is in a terminal state", nil)
	ErrInvalidOrderRequest  = NewOrderError("ORD011", "invalid order request", nil)
	ErrDiscountExceedsTotal = NewOrderError("ORD012", "discount exceeds the order total", nil)
)
