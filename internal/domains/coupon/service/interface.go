package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddinghub-backend/internal/domains/coupon/model"
)

// CouponValidation is the result of a successful coupon validation
type CouponValidation struct {
	Coupon         *model.Coupon
	DiscountAmount decimal.Decimal
}

// CouponService is the redeemable ledger: validates and consumes
// discount instruments (coupons and points)
type CouponService interface {
	// ValidateCoupon checks expiry, ownership and availability,
	// and computes the discount against the cart subtotal.
	// It does NOT consume the coupon.
	ValidateCoupon(ctx context.Context, code string, userID uuid.UUID, subtotal decimal.Decimal) (*CouponValidation, error)

	// ValidatePoints checks the user's balance covers the requested points
	// and returns the monetary redemption value. Does NOT deduct.
	ValidatePoints(ctx context.Context, userID uuid.UUID, points int64) (decimal.Decimal, error)

	// CommitCoupon consumes a previously validated coupon.
	// Called only after the order is durably persisted.
	CommitCoupon(ctx context.Context, coupon *model.Coupon, userID uuid.UUID) error

	// CommitPoints deducts points from the user's balance.
	// Called only after the order is durably persisted.
	CommitPoints(ctx context.Context, userID uuid.UUID, points int64) error

	// RefundPoints credits points back on order cancellation
	RefundPoints(ctx context.Context, userID uuid.UUID, points int64) error
}
