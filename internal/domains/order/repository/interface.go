package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"weddinghub-backend/internal/domains/order/model"
)

// OrderRepository persists orders and allocates order codes
type OrderRepository interface {
	// BeginTx starts a transaction for the order creation flow
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// NextOrderCodeWithTx allocates the next date-scoped order code
	// inside the given transaction. Safe under concurrent callers.
	NextOrderCodeWithTx(ctx context.Context, tx pgx.Tx, now time.Time) (string, error)

	// CreateWithTx inserts the order inside the given transaction
	CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID returns an order, or model.ErrOrderNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByCode returns an order by its external code
	GetByCode(ctx context.Context, orderCode string) (*model.Order, error)

	// GetByAppTransID returns the order linked to a gateway transaction id
	GetByAppTransID(ctx context.Context, appTransID string) (*model.Order, error)

	// ListByUserID returns a page of the user's orders, newest first
	ListByUserID(ctx context.Context, userID uuid.UUID, query *model.ListOrdersQuery) ([]model.Order, int64, error)

	// ListPendingGatewayPayments returns gateway orders still pending
	// payment, older than the given cutoff. Used by the polling job.
	ListPendingGatewayPayments(ctx context.Context, pendingSince time.Time, limit int) ([]model.Order, error)

	// Update persists order mutations with optimistic locking.
	// Returns model.ErrOrderNotFound if the version does not match.
	Update(ctx context.Context, order *model.Order) error
}
