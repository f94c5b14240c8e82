package repository

import (
	"context"

	"github.com/google/uuid"

	"weddinghub-backend/internal/domains/coupon/model"
)

// CouponRepository persists coupons and points balances
type CouponRepository interface {
	// GetByCode returns the coupon with the given code, or model.ErrCouponNotFound
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// MarkPersonalUsed flips is_used on a personal coupon.
	// Returns false if the coupon was already used (guarded update matched no row).
	MarkPersonalUsed(ctx context.Context, couponID uuid.UUID) (bool, error)

	// ConsumeGlobal atomically decrements quantity and appends the user to used_by.
	// Returns false if quantity is exhausted or the user already redeemed.
	ConsumeGlobal(ctx context.Context, couponID uuid.UUID, userID uuid.UUID) (bool, error)

	// GetPointsBalance returns the user's points balance; a missing row
	// is treated as a zero balance
	GetPointsBalance(ctx context.Context, userID uuid.UUID) (*model.PointsBalance, error)

	// DeductPoints atomically decrements the balance.
	// Returns false if the balance is insufficient.
	DeductPoints(ctx context.Context, userID uuid.UUID, points int64) (bool, error)

	// RefundPoints credits points back to the user's balance
	RefundPoints(ctx context.Context, userID uuid.UUID, points int64) error
}
