package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddinghub-backend/internal/domains/wallet/model"
)

// WalletRepository persists wallets and their append-only ledger
type WalletRepository interface {
	// GetByUserID returns the payee's wallet, or model.ErrWalletNotFound
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)

	// GetOrCreate returns the payee's wallet, creating it lazily
	// with a zero balance on first use
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)

	// Post applies the signed delta to the wallet balance and appends
	// the ledger row in one transaction, filling txn.BalanceBefore and
	// txn.BalanceAfter. A delta that would take the balance below zero
	// returns model.ErrInsufficientBalance and changes nothing.
	Post(ctx context.Context, txn *model.Transaction, delta decimal.Decimal, earning bool) error

	// ListTransactions returns a page of the wallet's ledger, newest first
	ListTransactions(ctx context.Context, walletID uuid.UUID, page, limit int) ([]model.Transaction, int64, error)
}
