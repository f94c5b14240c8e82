package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"weddinghub-backend/internal/domains/cart/model"
)

// ErrCartNotFound is returned when the user has no cart
var ErrCartNotFound = errors.New("cart not found")

type postgresCartRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCartRepository creates the PostgreSQL cart repository
func NewPostgresCartRepository(db *pgxpool.Pool) CartRepository {
	return &postgresCartRepository{db: db}
}

func (r *postgresCartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, discount, created_at, updated_at
		FROM carts
		WHERE user_id = $1`

	var cart model.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Discount,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (r *postgresCartRepository) GetItemsByCartID(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT id, cart_id, service_id, vendor_id, service_name, price, quantity, selected_options, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at ASC`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ServiceID,
			&item.VendorID,
			&item.ServiceName,
			&item.Price,
			&item.Quantity,
			&item.SelectedOptions,
			&item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cart items iteration failed: %w", err)
	}

	return items, nil
}

func (r *postgresCartRepository) DeleteCartWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	// Items first, then the cart row
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}
