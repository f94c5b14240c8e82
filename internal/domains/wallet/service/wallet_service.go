package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"weddinghub-backend/internal/domains/wallet/model"
	"weddinghub-backend/internal/domains/wallet/repository"
	"weddinghub-backend/pkg/logger"
)

type walletService struct {
	repo repository.WalletRepository
}

// NewWalletService creates the wallet service
func NewWalletService(repo repository.WalletRepository) WalletService {
	return &walletService{repo: repo}
}

func (s *walletService) GetWallet(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *walletService) Post(ctx context.Context, req *PostingRequest) (*model.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	wallet, err := s.repo.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if wallet.Status != model.WalletStatusActive {
		return nil, model.ErrWalletNotActive
	}

	delta := req.Type.SignedAmount(req.Amount)
	earning := req.Type == model.TransactionTypeIncome || req.Type == model.TransactionTypeBonus

	txn := &model.Transaction{
		ID:       uuid.New(),
		WalletID: wallet.ID,
		UserID:   req.UserID,
		OrderID:  req.OrderID,
		Type:     req.Type,
		Amount:   req.Amount,
		Status:   model.TransactionStatusCompleted,
		Details:  req.Details,
	}

	if err := s.repo.Post(ctx, txn, delta, earning); err != nil {
		if errors.Is(err, model.ErrInsufficientBalance) {
			return nil, err
		}
		logger.ErrorFields("wallet posting failed", err,
			map[string]interface{}{
				"walletId": wallet.ID.String(),
				"userId":   req.UserID.String(),
				"type":     string(req.Type),
				"amount":   req.Amount.String(),
			})
		return nil, model.NewWalletError("WAL005", "failed to post wallet transaction", err)
	}

	logger.Info("wallet posting applied", map[string]interface{}{
		"walletId": wallet.ID.String(),
		"type":     string(req.Type),
		"amount":   req.Amount.String(),
	})

	return txn, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Transaction, int64, error) {
	wallet, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.repo.ListTransactions(ctx, wallet.ID, page, limit)
}
