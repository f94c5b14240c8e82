package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"weddinghub-backend/internal/domains/coupon/model"
)

type postgresCouponRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCouponRepository creates the PostgreSQL coupon repository
func NewPostgresCouponRepository(db *pgxpool.Pool) CouponRepository {
	return &postgresCouponRepository{db: db}
}

func (r *postgresCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT id, code, type, discount_type, value, max_discount,
		       owner_id, is_used, quantity, used_by,
		       expires_at, created_at, updated_at
		FROM coupons
		WHERE code = $1`

	var coupon model.Coupon
	err := r.db.QueryRow(ctx, query, code).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Type,
		&coupon.DiscountType,
		&coupon.Value,
		&coupon.MaxDiscount,
		&coupon.OwnerID,
		&coupon.IsUsed,
		&coupon.Quantity,
		&coupon.UsedBy,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return &coupon, nil
}

func (r *postgresCouponRepository) MarkPersonalUsed(ctx context.Context, couponID uuid.UUID) (bool, error) {
	// Guarded update: matches only if still unused
	query := `
		UPDATE coupons
		SET is_used = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_used = FALSE`

	tag, err := r.db.Exec(ctx, query, couponID)
	if err != nil {
		return false, fmt.Errorf("failed to mark coupon used: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *postgresCouponRepository) ConsumeGlobal(ctx context.Context, couponID uuid.UUID, userID uuid.UUID) (bool, error) {
	// Atomic consume: quantity must remain >= 0 and the user must not
	// already appear in used_by
	query := `
		UPDATE coupons
		SET quantity = quantity - 1,
		    used_by = array_append(used_by, $2),
		    updated_at = NOW()
		WHERE id = $1
		  AND quantity > 0
		  AND NOT (used_by @> ARRAY[$2]::uuid[])`

	tag, err := r.db.Exec(ctx, query, couponID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to consume global coupon: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *postgresCouponRepository) GetPointsBalance(ctx context.Context, userID uuid.UUID) (*model.PointsBalance, error) {
	query := `
		SELECT user_id, balance, total_earned, last_updated
		FROM points_balances
		WHERE user_id = $1`

	var balance model.PointsBalance
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&balance.UserID,
		&balance.Balance,
		&balance.TotalEarned,
		&balance.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row yet means the user simply has no points
			return &model.PointsBalance{
				UserID:      userID,
				Balance:     0,
				TotalEarned: 0,
				LastUpdated: time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("failed to get points balance: %w", err)
	}

	return &balance, nil
}

func (r *postgresCouponRepository) DeductPoints(ctx context.Context, userID uuid.UUID, points int64) (bool, error) {
	// Guarded atomic decrement, never drops below zero
	query := `
		UPDATE points_balances
		SET balance = balance - $2, last_updated = NOW()
		WHERE user_id = $1 AND balance >= $2`

	tag, err := r.db.Exec(ctx, query, userID, points)
	if err != nil {
		return false, fmt.Errorf("failed to deduct points: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *postgresCouponRepository) RefundPoints(ctx context.Context, userID uuid.UUID, points int64) error {
	// Upsert so refunds work even if the balance row was never created
	query := `
		INSERT INTO points_balances (user_id, balance, total_earned, last_updated)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET balance = points_balances.balance + $2, last_updated = NOW()`

	if _, err := r.db.Exec(ctx, query, userID, points); err != nil {
		return fmt.Errorf("failed to refund points: %w", err)
	}

	return nil
}
