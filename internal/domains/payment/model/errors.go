package model

import "fmt"

// PaymentError is a coded error from payment processing
type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a coded payment error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{Code: code, Message: message, Err: err}
}

// Error codes for payment operations
var (
	ErrInvalidSignature   = NewPaymentError("PAY001", "callback signature verification failed", nil)
	ErrUnknownTransaction = NewPaymentError("PAY002", "no order matches the gateway transaction", nil)
	ErrOrderCodeMismatch  = NewPaymentError("PAY003", "callback order code does not match the stored transaction", nil)
	ErrMalformedCallback  = NewPaymentError("PAY004", "callback payload could not be parsed", nil)
)
