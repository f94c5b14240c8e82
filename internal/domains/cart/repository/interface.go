package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"weddinghub-backend/internal/domains/cart/model"
)

// CartRepository provides cart access for the checkout flow
type CartRepository interface {
	// GetByUserID returns the user's cart, or ErrCartNotFound
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetItemsByCartID returns all items in a cart
	GetItemsByCartID(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)

	// DeleteCartWithTx removes the cart and its items inside an existing transaction
	DeleteCartWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}
