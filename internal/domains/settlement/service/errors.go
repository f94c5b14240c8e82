package service

import "fmt"

// SettlementError is a coded error from the settlement workflow
type SettlementError struct {
	Code    string
	Message string
	Err     error
}

func (e *SettlementError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SettlementError) Unwrap() error {
	return e.Err
}

// NewSettlementError creates a coded settlement error
func NewSettlementError(code, message string, err error) *SettlementError {
	return &SettlementError{Code: code, Message: message, Err: err}
}

// Error codes for settlement operations
var (
	ErrDepositWrongState      = NewSettlementError("STL001", "deposit requires a confirmed order", nil)
	ErrDepositAlreadyTaken    = NewSettlementError("STL002", "deposit already confirmed", nil)
	ErrFullPaymentWrongState  = NewSettlementError("STL003", "full payment not allowed in current state", nil)
	ErrFullPaymentAlreadyDone = NewSettlementError("STL004", "full payment already confirmed", nil)
	ErrCompletionWrongState   = NewSettlementError("STL005", "service completion requires a processing order", nil)
	ErrCompletionAlreadyDone  = NewSettlementError("STL006", "service completion already confirmed", nil)
	ErrRemainingBalanceOwed   = NewSettlementError("STL007", "remaining balance must be confirmed before completing service", nil)
)
