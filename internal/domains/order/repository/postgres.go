package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"weddinghub-backend/internal/domains/order/model"
)

const orderColumns = `
	id, order_code, user_id, customer_info, items,
	subtotal, tax, discount, total,
	payment_method, payment_status, order_status, payment_tracking,
	redeemed_coupon_code, redeemed_points_amount, app_trans_id,
	event_date, version, created_at, updated_at`

type postgresOrderRepository struct {
	db *pgxpool.Pool
}

// NewPostgresOrderRepository creates the PostgreSQL order repository
func NewPostgresOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *postgresOrderRepository) NextOrderCodeWithTx(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	day := now.Format("060102")

	// Single atomic upsert-and-increment. A read-then-write pair would
	// allocate duplicate codes under concurrent order creation.
	query := `
		INSERT INTO daily_counters (day, seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE
		SET seq = daily_counters.seq + 1
		RETURNING seq`

	var seq int64
	if err := tx.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to increment daily counter: %w", err)
	}

	return model.FormatOrderCode(now, seq), nil
}

func (r *postgresOrderRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_code, user_id, customer_info, items,
			subtotal, tax, discount, total,
			payment_method, payment_status, order_status, payment_tracking,
			redeemed_coupon_code, redeemed_points_amount, app_trans_id,
			event_date, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, NOW(), NOW()
		)
		RETURNING created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.OrderCode,
		order.UserID,
		order.CustomerInfo,
		order.Items,
		order.Subtotal,
		order.Tax,
		order.Discount,
		order.Total,
		order.PaymentMethod,
		order.PaymentStatus,
		order.OrderStatus,
		order.PaymentTracking,
		order.RedeemedCouponCode,
		order.RedeemedPointsAmount,
		order.AppTransID,
		order.EventDate,
		order.Version,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *postgresOrderRepository) GetByCode(ctx context.Context, orderCode string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_code = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, orderCode))
}

func (r *postgresOrderRepository) GetByAppTransID(ctx context.Context, appTransID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE app_trans_id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, appTransID))
}

func (r *postgresOrderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, query *model.ListOrdersQuery) ([]model.Order, int64, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}

	if query.Status != "" {
		where += ` AND order_status = $2`
		args = append(args, query.Status)
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM orders ` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (query.Page - 1) * query.Limit
	listSQL := fmt.Sprintf(
		`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		orderColumns, where, query.Limit, offset,
	)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *postgresOrderRepository) ListPendingGatewayPayments(ctx context.Context, pendingSince time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_method = $1
		  AND payment_status = $2
		  AND app_trans_id IS NOT NULL
		  AND created_at < $3
		ORDER BY created_at ASC
		LIMIT $4`

	rows, err := r.db.Query(ctx, query,
		model.PaymentMethodZaloPay,
		model.PaymentStatusPending,
		pendingSince,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending gateway payments: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *postgresOrderRepository) Update(ctx context.Context, order *model.Order) error {
	// Optimistic locking: the version must match the loaded one
	query := `
		UPDATE orders
		SET payment_status = $1,
		    order_status = $2,
		    payment_tracking = $3,
		    app_trans_id = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $5 AND version = $6
		RETURNING version, updated_at`

	err := r.db.QueryRow(ctx, query,
		order.PaymentStatus,
		order.OrderStatus,
		order.PaymentTracking,
		order.AppTransID,
		order.ID,
		order.Version,
	).Scan(&order.Version, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewOrderError("ORD001",
				"order not found or concurrently modified", nil)
		}
		return fmt.Errorf("failed to update order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) scanOne(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.OrderCode,
		&order.UserID,
		&order.CustomerInfo,
		&order.Items,
		&order.Subtotal,
		&order.Tax,
		&order.Discount,
		&order.Total,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.PaymentTracking,
		&order.RedeemedCouponCode,
		&order.RedeemedPointsAmount,
		&order.AppTransID,
		&order.EventDate,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return &order, nil
}

func (r *postgresOrderRepository) scanMany(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		order, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order rows iteration failed: %w", err)
	}

	return orders, nil
}
