package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddinghub-backend/internal/domains/wallet/model"
)

// PostingRequest describes one ledger posting
type PostingRequest struct {
	UserID  uuid.UUID
	OrderID *uuid.UUID
	Type    model.TransactionType
	Amount  decimal.Decimal
	Details model.TransactionDetails
}

// WalletService is the append-only payout ledger
type WalletService interface {
	// GetWallet returns the payee's wallet
	GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)

	// Post atomically applies a posting to the wallet balance and
	// appends the matching ledger row. Creates the wallet lazily on
	// first income.
	Post(ctx context.Context, req *PostingRequest) (*model.Transaction, error)

	// ListTransactions returns a page of the user's ledger, newest first
	ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Transaction, int64, error)
}
