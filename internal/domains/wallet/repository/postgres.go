package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"weddinghub-backend/internal/domains/wallet/model"
	"weddinghub-backend/pkg/database"
)

type postgresWalletRepository struct {
	db *pgxpool.Pool
}

// NewPostgresWalletRepository creates the PostgreSQL wallet repository
func NewPostgresWalletRepository(db *pgxpool.Pool) WalletRepository {
	return &postgresWalletRepository{db: db}
}

func (r *postgresWalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	query := `
		SELECT id, user_id, balance, total_earnings, status,
		       last_transaction_at, created_at, updated_at
		FROM wallets
		WHERE user_id = $1`

	var wallet model.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.TotalEarnings,
		&wallet.Status,
		&wallet.LastTransactionAt,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &wallet, nil
}

func (r *postgresWalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	// Lazy creation: upsert a zero-balance wallet, then read it back.
	// ON CONFLICT DO NOTHING keeps concurrent first payouts safe.
	insert := `
		INSERT INTO wallets (id, user_id, balance, total_earnings, status, created_at, updated_at)
		VALUES ($1, $2, 0, 0, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, insert, uuid.New(), userID, model.WalletStatusActive); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return r.GetByUserID(ctx, userID)
}

func (r *postgresWalletRepository) Post(ctx context.Context, txn *model.Transaction, delta decimal.Decimal, earning bool) error {
	// Balance update and ledger row commit or roll back together so the
	// balance_before/balance_after chain can never skip a posting.
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		// Atomic increment against the stored balance. Read-modify-write
		// would lose updates when milestones or retried callbacks race.
		update := `
			UPDATE wallets
			SET balance = balance + $2,
			    total_earnings = total_earnings + CASE WHEN $3 THEN $2 ELSE 0 END,
			    last_transaction_at = NOW(),
			    updated_at = NOW()
			WHERE id = $1
			  AND status = $4
			  AND balance + $2 >= 0
			RETURNING balance - $2, balance`

		err := tx.QueryRow(ctx, update, txn.WalletID, delta, earning, model.WalletStatusActive).
			Scan(&txn.BalanceBefore, &txn.BalanceAfter)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrInsufficientBalance
			}
			return fmt.Errorf("failed to apply wallet delta: %w", err)
		}

		insert := `
			INSERT INTO wallet_transactions (
				id, wallet_id, user_id, order_id, type, amount,
				balance_before, balance_after, status, details, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6,
				$7, $8, $9, $10, NOW()
			)
			RETURNING created_at`

		err = tx.QueryRow(ctx, insert,
			txn.ID,
			txn.WalletID,
			txn.UserID,
			txn.OrderID,
			txn.Type,
			txn.Amount,
			txn.BalanceBefore,
			txn.BalanceAfter,
			txn.Status,
			txn.Details,
		).Scan(&txn.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert wallet transaction: %w", err)
		}

		return nil
	})
}

func (r *postgresWalletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, page, limit int) ([]model.Transaction, int64, error) {
	var total int64
	countSQL := `SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`
	if err := r.db.QueryRow(ctx, countSQL, walletID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	query := `
		SELECT id, wallet_id, user_id, order_id, type, amount,
		       balance_before, balance_after, status, details, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, walletID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.WalletID,
			&txn.UserID,
			&txn.OrderID,
			&txn.Type,
			&txn.Amount,
			&txn.BalanceBefore,
			&txn.BalanceAfter,
			&txn.Status,
			&txn.Details,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("wallet transactions iteration failed: %w", err)
	}

	return txns, total, nil
}
