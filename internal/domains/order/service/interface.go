package service

import (
	"context"

	"github.com/google/uuid"

	"weddinghub-backend/internal/domains/order/model"
)

// OrderService drives the order lifecycle from checkout to cancellation
type OrderService interface {
	// CreateOrder runs the checkout saga: validates input, snapshots the
	// cart, applies redeemables, allocates an order code and persists the
	// order atomically, then clears the cart and commits the redeemables.
	CreateOrder(ctx context.Context, userID uuid.UUID, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error)

	// GetOrder returns the order if it belongs to the user
	GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*model.Order, error)

	// GetOrderByID returns the order without an ownership check (admin)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// ListOrders returns a page of the user's orders
	ListOrders(ctx context.Context, userID uuid.UUID, query *model.ListOrdersQuery) ([]model.Order, int64, error)

	// ConfirmOrder moves a pending order to confirmed (admin action)
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// ConfirmCODPayment marks a COD order's payment completed and
	// confirms the order
	ConfirmCODPayment(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*model.Order, error)

	// CancelOrder cancels a pending or confirmed order, forces the
	// payment status to cancelled and refunds redeemed points
	CancelOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error)

	// AdminCancelOrder cancels on behalf of the platform, without an
	// ownership check. Same rules and reversals as CancelOrder.
	AdminCancelOrder(ctx context.Context, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error)
}
