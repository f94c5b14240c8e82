package model

import "fmt"

// WalletError is a coded business error from the wallet ledger
type WalletError struct {
	Code    string
	Message string
	Err     error
}

func (e *WalletError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// NewWalletError creates a coded wallet error
func NewWalletError(code, message string, err error) *WalletError {
	return &WalletError{Code: code, Message: message, Err: err}
}

// Error codes for wallet operations
var (
	ErrWalletNotFound      = NewWalletError("WAL001", "wallet not found", nil)
	ErrWalletNotActive     = NewWalletError("WAL002", "wallet is not active", nil)
	ErrInsufficientBalance = NewWalletError("WAL003", "insufficient wallet balance", nil)
	ErrInvalidAmount       = NewWalletError("WAL004", "amount must be positive", nil)
	ErrPostingFailed       = NewWalletError("WAL005", "failed to post wallet transaction", nil)
)
