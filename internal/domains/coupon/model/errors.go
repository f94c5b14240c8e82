package model

import "fmt"

// CouponError is a coded business error from the redeemable ledger
type CouponError struct {
	Code    string
	Message string
	Err     error
}

func (e *CouponError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CouponError) Unwrap() error {
	return e.Err
}

// NewCouponError creates a coded coupon error
func NewCouponError(code, message string, err error) *CouponError {
	return &CouponError{Code: code, Message: message, Err: err}
}

// Error codes for coupon and points operations
var (
	ErrCouponNotFound      = NewCouponError("CPN001", "coupon not found", nil)
	ErrCouponExpired       = NewCouponError("CPN002", "coupon has expired", nil)
	ErrCouponAlreadyUsed   = NewCouponError("CPN003", "coupon has already been used", nil)
	ErrCouponNotOwned      = NewCouponError("CPN004", "coupon belongs to another user", nil)
	ErrCouponExhausted     = NewCouponError("CPN005", "coupon quantity exhausted", nil)
	ErrCouponAlreadyTaken  = NewCouponError("CPN006", "user has already redeemed this coupon", nil)
	ErrInsufficientPoints  = NewCouponError("CPN007", "insufficient points balance", nil)
	ErrInvalidPointsAmount = NewCouponError("CPN008", "points amount must be positive", nil)
	ErrCouponCommitFailed  = NewCouponError("CPN009", "failed to commit coupon redemption", nil)
	ErrPointsCommitFailed  = NewCouponError("CPN010", "failed to commit points redemption", nil)
)
