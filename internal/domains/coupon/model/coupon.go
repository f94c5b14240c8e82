package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// COUPON TYPES
// =====================================================

// CouponType distinguishes personal and global coupons
type CouponType string

const (
	// CouponTypePersonal is bound to one user and single-use
	CouponTypePersonal CouponType = "personal"
	// CouponTypeGlobal is a shared pool; each user can redeem at most once
	CouponTypeGlobal CouponType = "global"
)

// DiscountType defines how the discount amount is computed
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is a redeemable discount instrument.
// Personal coupons use OwnerID + IsUsed; global coupons use Quantity + UsedBy.
type Coupon struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Code         string          `json:"code" db:"code"`
	Type         CouponType      `json:"type" db:"type"`
	DiscountType DiscountType    `json:"discountType" db:"discount_type"`
	Value        decimal.Decimal `json:"value" db:"value"`

	// MaxDiscount caps percentage discounts; zero means no cap
	MaxDiscount decimal.Decimal `json:"maxDiscount" db:"max_discount"`

	// Personal coupon fields
	OwnerID *uuid.UUID `json:"ownerId,omitempty" db:"owner_id"`
	IsUsed  bool       `json:"isUsed" db:"is_used"`

	// Global coupon fields
	Quantity int         `json:"quantity" db:"quantity"`
	UsedBy   []uuid.UUID `json:"usedBy,omitempty" db:"used_by"`

	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsExpired reports whether the coupon has passed its expiry
func (c *Coupon) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// UsedByContains reports whether the user already redeemed this global coupon
func (c *Coupon) UsedByContains(userID uuid.UUID) bool {
	for _, id := range c.UsedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// DiscountFor computes the discount amount against a subtotal.
// The discount never exceeds the subtotal itself.
func (c *Coupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
		if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
			discount = c.MaxDiscount
		}
	case DiscountTypeFixed:
		discount = c.Value
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return discount
}

// =====================================================
// POINTS
// =====================================================

// PointValue is the redemption value of one point in VND
var PointValue = decimal.NewFromInt(1000)

// PointsBalance tracks a user's redeemable points
type PointsBalance struct {
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Balance     int64     `json:"balance" db:"balance"`
	TotalEarned int64     `json:"totalEarned" db:"total_earned"`
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// PointsToAmount converts a points quantity to its monetary value
func PointsToAmount(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).Mul(PointValue)
}
