package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordermodel "weddinghub-backend/internal/domains/order/model"
	orderrepo "weddinghub-backend/internal/domains/order/repository"
	walletmodel "weddinghub-backend/internal/domains/wallet/model"
	walletsvc "weddinghub-backend/internal/domains/wallet/service"
	"weddinghub-backend/pkg/logger"
)

// Milestone labels recorded in the wallet transaction details
const (
	milestoneDeposit          = "deposit"
	milestoneFullPayment      = "full_payment"
	milestoneRemainingPayment = "remaining_payment"
	milestoneServiceCompleted = "service_completed"
)

type settlementService struct {
	orderRepo orderrepo.OrderRepository
	walletSvc walletsvc.WalletService
}

// NewSettlementService creates the settlement orchestrator
func NewSettlementService(orderRepo orderrepo.OrderRepository, walletSvc walletsvc.WalletService) SettlementService {
	return &settlementService{
		orderRepo: orderRepo,
		walletSvc: walletSvc,
	}
}

func (s *settlementService) ConfirmDeposit(ctx context.Context, orderID uuid.UUID) (*SettlementResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Milestone guards double as idempotency checks: re-invoking an
	// already-confirmed milestone is rejected, never re-applied
	if order.OrderStatus != ordermodel.OrderStatusConfirmed {
		return nil, ErrDepositWrongState
	}
	if order.PaymentTracking.DepositConfirmed {
		return nil, ErrDepositAlreadyTaken
	}

	depositAmount := order.DepositAmount()
	now := time.Now()

	order.PaymentTracking.DepositConfirmed = true
	order.PaymentTracking.DepositAmount = depositAmount
	order.PaymentTracking.DepositConfirmedAt = &now
	order.OrderStatus = ordermodel.OrderStatusProcessing

	// The optimistic version check makes a racing second confirmation
	// fail here instead of paying out twice
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	txns := s.payoutSlice(ctx, order, depositAmount, 30, milestoneDeposit)

	logger.Info("deposit confirmed", map[string]interface{}{
		"orderCode": order.OrderCode,
		"deposit":   depositAmount.String(),
	})

	return &SettlementResult{Order: order, Transactions: txns}, nil
}

func (s *settlementService) ConfirmFullPayment(ctx context.Context, orderID uuid.UUID) (*SettlementResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentTracking.FullPaymentConfirmed {
		return nil, ErrFullPaymentAlreadyDone
	}

	var slice decimal.Decimal
	var percentage int
	var milestone string

	switch {
	case order.OrderStatus == ordermodel.OrderStatusConfirmed && !order.PaymentTracking.DepositConfirmed:
		// Full 100% path
		slice = order.Total
		percentage = 100
		milestone = milestoneFullPayment
		order.OrderStatus = ordermodel.OrderStatusProcessing

	case order.OrderStatus == ordermodel.OrderStatusProcessing && order.PaymentTracking.DepositConfirmed:
		// Remaining 70% path after a deposit
		slice = order.Total.Sub(order.PaymentTracking.DepositAmount)
		percentage = 70
		milestone = milestoneRemainingPayment

	default:
		return nil, ErrFullPaymentWrongState
	}

	now := time.Now()
	order.PaymentTracking.FullPaymentConfirmed = true
	order.PaymentTracking.FullPaymentConfirmedAt = &now

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	txns := s.payoutSlice(ctx, order, slice, percentage, milestone)

	logger.Info("full payment confirmed", map[string]interface{}{
		"orderCode":  order.OrderCode,
		"percentage": percentage,
		"amount":     slice.String(),
	})

	return &SettlementResult{Order: order, Transactions: txns}, nil
}

func (s *settlementService) MarkServiceCompleted(ctx context.Context, orderID uuid.UUID) (*SettlementResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.OrderStatus != ordermodel.OrderStatusProcessing {
		return nil, ErrCompletionWrongState
	}
	if order.PaymentTracking.ServiceCompletedConfirmed {
		return nil, ErrCompletionAlreadyDone
	}

	directPayout := false
	switch {
	case order.PaymentTracking.FullPaymentConfirmed:
		// Vendors already paid in full; nothing left to post

	case !order.PaymentTracking.DepositConfirmed:
		// Direct path: no deposit was ever taken, pay the full net now
		directPayout = true

	default:
		// Deposit taken but the remaining balance never confirmed.
		// Completing here would mark the vendor done while still owed.
		return nil, ErrRemainingBalanceOwed
	}

	now := time.Now()
	order.PaymentTracking.ServiceCompletedConfirmed = true
	order.PaymentTracking.ServiceCompletedConfirmedAt = &now
	order.OrderStatus = ordermodel.OrderStatusCompleted

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	var txns []*walletmodel.Transaction
	if directPayout {
		txns = s.payoutSlice(ctx, order, order.Total, 100, milestoneServiceCompleted)
	}

	logger.Info("service completion confirmed", map[string]interface{}{
		"orderCode":    order.OrderCode,
		"directPayout": directPayout,
	})

	return &SettlementResult{Order: order, Transactions: txns}, nil
}

// payoutSlice distributes a payment slice across the order's vendors,
// nets the platform fee from each share and posts income transactions.
// The order state is already durable at this point; posting failures
// are logged for reconciliation rather than rolling the milestone back.
func (s *settlementService) payoutSlice(ctx context.Context, order *ordermodel.Order, slice decimal.Decimal, percentage int, milestone string) []*walletmodel.Transaction {
	shares := vendorShares(order)

	txns := make([]*walletmodel.Transaction, 0, len(shares))
	for vendorID, share := range shares {
		gross := slice.Mul(share).Round(2)
		fee := gross.Mul(ordermodel.ServiceFeeRate).Round(2)
		net := gross.Sub(fee)

		orderID := order.ID
		txn, err := s.walletSvc.Post(ctx, &walletsvc.PostingRequest{
			UserID:  vendorID,
			OrderID: &orderID,
			Type:    walletmodel.TransactionTypeIncome,
			Amount:  net,
			Details: walletmodel.TransactionDetails{
				OrderCode:   order.OrderCode,
				Milestone:   milestone,
				Percentage:  percentage,
				GrossAmount: gross,
				ServiceFee:  fee,
			},
		})
		if err != nil {
			logger.ErrorFields("vendor payout posting failed", err, map[string]interface{}{
				"orderCode": order.OrderCode,
				"vendorId":  vendorID.String(),
				"milestone": milestone,
				"net":       net.String(),
			})
			continue
		}

		txns = append(txns, txn)
	}

	return txns
}

// vendorShares returns each vendor's fraction of the order subtotal
func vendorShares(order *ordermodel.Order) map[uuid.UUID]decimal.Decimal {
	subtotals := make(map[uuid.UUID]decimal.Decimal)
	total := decimal.Zero
	for _, item := range order.Items {
		subtotals[item.VendorID] = subtotals[item.VendorID].Add(item.Subtotal())
		total = total.Add(item.Subtotal())
	}

	shares := make(map[uuid.UUID]decimal.Decimal, len(subtotals))
	if total.IsZero() {
		return shares
	}
	for vendorID, sub := range subtotals {
		shares[vendorID] = sub.Div(total)
	}

	return shares
}
