package service

import (
	"context"

	"github.com/google/uuid"

	ordermodel "weddinghub-backend/internal/domains/order/model"
	walletmodel "weddinghub-backend/internal/domains/wallet/model"
)

// SettlementResult is the outcome of a milestone confirmation
type SettlementResult struct {
	Order        *ordermodel.Order          `json:"order"`
	Transactions []*walletmodel.Transaction `json:"transactions,omitempty"`
}

// SettlementService drives an order through the staged payout
// milestones, posting vendor wallet transactions at each step
type SettlementService interface {
	// ConfirmDeposit records the 30% deposit, pays the vendors their
	// net share and moves the order to processing
	ConfirmDeposit(ctx context.Context, orderID uuid.UUID) (*SettlementResult, error)

	// ConfirmFullPayment records full payment: the 100% path from
	// confirmed, or the remaining 70% path after a deposit
	ConfirmFullPayment(ctx context.Context, orderID uuid.UUID) (*SettlementResult, error)

	// MarkServiceCompleted closes out a processing order. Rejected when
	// a deposit was taken but the remaining balance was never confirmed.
	MarkServiceCompleted(ctx context.Context, orderID uuid.UUID) (*SettlementResult, error)
}
