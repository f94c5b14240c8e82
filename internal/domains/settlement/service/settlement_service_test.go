package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermodel "weddinghub-backend/internal/domains/order/model"
	walletmodel "weddinghub-backend/internal/domains/wallet/model"
	walletsvc "weddinghub-backend/internal/domains/wallet/service"
)

// fakeOrderRepo is an in-memory OrderRepository for milestone flows
type fakeOrderRepo struct {
	orders map[uuid.UUID]*ordermodel.Order
}

func newFakeOrderRepo(orders ...*ordermodel.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*ordermodel.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) BeginTx(context.Context) (pgx.Tx, error) {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) NextOrderCodeWithTx(context.Context, pgx.Tx, time.Time) (string, error) {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) CreateWithTx(context.Context, pgx.Tx, *ordermodel.Order) error {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, ordermodel.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetByCode(context.Context, string) (*ordermodel.Order, error) {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) GetByAppTransID(context.Context, string) (*ordermodel.Order, error) {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) ListByUserID(context.Context, uuid.UUID, *ordermodel.ListOrdersQuery) ([]ordermodel.Order, int64, error) {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) ListPendingGatewayPayments(context.Context, time.Time, int) ([]ordermodel.Order, error) {
	panic("not used in settlement tests")
}

func (f *fakeOrderRepo) Update(_ context.Context, order *ordermodel.Order) error {
	stored, ok := f.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return ordermodel.ErrOrderNotFound
	}
	order.Version++
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

// fakeWalletRepo backs a real wallet service in these tests
type fakeWalletRepo struct {
	wallets map[uuid.UUID]*walletmodel.Wallet
	ledger  []walletmodel.Transaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uuid.UUID]*walletmodel.Wallet)}
}

func (f *fakeWalletRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*walletmodel.Wallet, error) {
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, walletmodel.ErrWalletNotFound
	}
	copied := *wallet
	return &copied, nil
}

func (f *fakeWalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*walletmodel.Wallet, error) {
	if _, ok := f.wallets[userID]; !ok {
		f.wallets[userID] = &walletmodel.Wallet{
			ID:      uuid.New(),
			UserID:  userID,
			Balance: decimal.Zero,
			Status:  walletmodel.WalletStatusActive,
		}
	}
	return f.GetByUserID(ctx, userID)
}

func (f *fakeWalletRepo) Post(_ context.Context, txn *walletmodel.Transaction, delta decimal.Decimal, earning bool) error {
	for _, wallet := range f.wallets {
		if wallet.ID != txn.WalletID {
			continue
		}
		txn.BalanceBefore = wallet.Balance
		wallet.Balance = wallet.Balance.Add(delta)
		txn.BalanceAfter = wallet.Balance
		if earning {
			wallet.TotalEarnings = wallet.TotalEarnings.Add(delta)
		}
		f.ledger = append(f.ledger, *txn)
		return nil
	}
	return walletmodel.ErrWalletNotFound
}

func (f *fakeWalletRepo) ListTransactions(context.Context, uuid.UUID, int, int) ([]walletmodel.Transaction, int64, error) {
	return nil, 0, nil
}

// confirmedOrder builds a confirmed single-vendor order with a
// 10,000,000 subtotal (total 11,000,000 after tax)
func confirmedOrder(vendorID uuid.UUID) *ordermodel.Order {
	order := &ordermodel.Order{
		ID:        uuid.New(),
		OrderCode: "240315001",
		UserID:    uuid.New(),
		Items: ordermodel.OrderItems{{
			ServiceID:   uuid.New(),
			VendorID:    vendorID,
			ServiceName: "wedding photography",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(10_000_000),
		}},
		OrderStatus:     ordermodel.OrderStatusConfirmed,
		PaymentStatus:   ordermodel.PaymentStatusPending,
		PaymentTracking: ordermodel.NewPaymentTracking(),
		Version:         1,
	}
	order.ComputeAmounts(decimal.Zero)
	return order
}

func newTestSettlement(orders ...*ordermodel.Order) (SettlementService, *fakeOrderRepo, *fakeWalletRepo) {
	orderRepo := newFakeOrderRepo(orders...)
	walletRepo := newFakeWalletRepo()
	return NewSettlementService(orderRepo, walletsvc.NewWalletService(walletRepo)), orderRepo, walletRepo
}

func TestConfirmDeposit(t *testing.T) {
	ctx := context.Background()
	vendor := uuid.New()

	t.Run("credits the vendor the net deposit", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, orderRepo, walletRepo := newTestSettlement(order)

		result, err := svc.ConfirmDeposit(ctx, order.ID)
		require.NoError(t, err)

		// deposit 3,300,000, fee 330,000, net 2,970,000
		require.Len(t, result.Transactions, 1)
		txn := result.Transactions[0]
		assert.True(t, txn.Amount.Equal(decimal.NewFromInt(2_970_000)), "got %s", txn.Amount)
		assert.Equal(t, walletmodel.TransactionTypeIncome, txn.Type)
		assert.Equal(t, "240315001", txn.Details.OrderCode)
		assert.Equal(t, 30, txn.Details.Percentage)
		assert.True(t, txn.Details.GrossAmount.Equal(decimal.NewFromInt(3_300_000)))
		assert.True(t, txn.Details.ServiceFee.Equal(decimal.NewFromInt(330_000)))

		assert.True(t, walletRepo.wallets[vendor].Balance.Equal(decimal.NewFromInt(2_970_000)))

		stored := orderRepo.orders[order.ID]
		assert.Equal(t, ordermodel.OrderStatusProcessing, stored.OrderStatus)
		assert.True(t, stored.PaymentTracking.DepositConfirmed)
		assert.True(t, stored.PaymentTracking.DepositAmount.Equal(decimal.NewFromInt(3_300_000)))
		assert.NotNil(t, stored.PaymentTracking.DepositConfirmedAt)
	})

	t.Run("rejected for pending orders", func(t *testing.T) {
		order := confirmedOrder(vendor)
		order.OrderStatus = ordermodel.OrderStatusPending
		svc, _, _ := newTestSettlement(order)

		_, err := svc.ConfirmDeposit(ctx, order.ID)
		assert.ErrorIs(t, err, ErrDepositWrongState)
	})

	t.Run("re-invocation is rejected, not re-applied", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, _, walletRepo := newTestSettlement(order)

		_, err := svc.ConfirmDeposit(ctx, order.ID)
		require.NoError(t, err)

		_, err = svc.ConfirmDeposit(ctx, order.ID)
		assert.Error(t, err)
		assert.True(t, walletRepo.wallets[vendor].Balance.Equal(decimal.NewFromInt(2_970_000)),
			"balance must not move on a rejected replay")
	})
}

func TestConfirmFullPayment(t *testing.T) {
	ctx := context.Background()
	vendor := uuid.New()

	t.Run("remaining 70 percent path after deposit", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, orderRepo, walletRepo := newTestSettlement(order)

		_, err := svc.ConfirmDeposit(ctx, order.ID)
		require.NoError(t, err)

		result, err := svc.ConfirmFullPayment(ctx, order.ID)
		require.NoError(t, err)

		// remaining 7,700,000, fee 770,000, net 6,930,000
		require.Len(t, result.Transactions, 1)
		assert.True(t, result.Transactions[0].Amount.Equal(decimal.NewFromInt(6_930_000)))
		assert.Equal(t, 70, result.Transactions[0].Details.Percentage)

		// deposit + remaining = 9,900,000 total to the vendor
		assert.True(t, walletRepo.wallets[vendor].Balance.Equal(decimal.NewFromInt(9_900_000)))

		stored := orderRepo.orders[order.ID]
		assert.True(t, stored.PaymentTracking.FullPaymentConfirmed)
		assert.Equal(t, ordermodel.OrderStatusProcessing, stored.OrderStatus)
	})

	t.Run("full 100 percent path from confirmed", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, orderRepo, walletRepo := newTestSettlement(order)

		result, err := svc.ConfirmFullPayment(ctx, order.ID)
		require.NoError(t, err)

		require.Len(t, result.Transactions, 1)
		assert.True(t, result.Transactions[0].Amount.Equal(decimal.NewFromInt(9_900_000)))
		assert.Equal(t, 100, result.Transactions[0].Details.Percentage)
		assert.True(t, walletRepo.wallets[vendor].Balance.Equal(decimal.NewFromInt(9_900_000)))

		assert.Equal(t, ordermodel.OrderStatusProcessing, orderRepo.orders[order.ID].OrderStatus)
	})

	t.Run("rejected for pending orders", func(t *testing.T) {
		order := confirmedOrder(vendor)
		order.OrderStatus = ordermodel.OrderStatusPending
		svc, _, _ := newTestSettlement(order)

		_, err := svc.ConfirmFullPayment(ctx, order.ID)
		assert.ErrorIs(t, err, ErrFullPaymentWrongState)
	})

	t.Run("re-invocation rejected", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, _, _ := newTestSettlement(order)

		_, err := svc.ConfirmFullPayment(ctx, order.ID)
		require.NoError(t, err)

		_, err = svc.ConfirmFullPayment(ctx, order.ID)
		assert.ErrorIs(t, err, ErrFullPaymentAlreadyDone)
	})
}

func TestMarkServiceCompleted(t *testing.T) {
	ctx := context.Background()
	vendor := uuid.New()

	t.Run("completes after full payment without extra payout", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, orderRepo, walletRepo := newTestSettlement(order)

		_, err := svc.ConfirmFullPayment(ctx, order.ID)
		require.NoError(t, err)

		result, err := svc.MarkServiceCompleted(ctx, order.ID)
		require.NoError(t, err)

		assert.Empty(t, result.Transactions)
		assert.True(t, walletRepo.wallets[vendor].Balance.Equal(decimal.NewFromInt(9_900_000)))

		stored := orderRepo.orders[order.ID]
		assert.Equal(t, ordermodel.OrderStatusCompleted, stored.OrderStatus)
		assert.True(t, stored.PaymentTracking.ServiceCompletedConfirmed)
	})

	t.Run("rejected while the remaining balance is owed", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, _, _ := newTestSettlement(order)

		_, err := svc.ConfirmDeposit(ctx, order.ID)
		require.NoError(t, err)

		_, err = svc.MarkServiceCompleted(ctx, order.ID)
		assert.ErrorIs(t, err, ErrRemainingBalanceOwed)
	})

	t.Run("direct path pays the full net at once", func(t *testing.T) {
		order := confirmedOrder(vendor)
		order.OrderStatus = ordermodel.OrderStatusProcessing
		svc, orderRepo, walletRepo := newTestSettlement(order)

		result, err := svc.MarkServiceCompleted(ctx, order.ID)
		require.NoError(t, err)

		require.Len(t, result.Transactions, 1)
		assert.True(t, result.Transactions[0].Amount.Equal(decimal.NewFromInt(9_900_000)))
		assert.True(t, walletRepo.wallets[vendor].Balance.Equal(decimal.NewFromInt(9_900_000)))
		assert.Equal(t, ordermodel.OrderStatusCompleted, orderRepo.orders[order.ID].OrderStatus)
	})

	t.Run("rejected outside processing", func(t *testing.T) {
		order := confirmedOrder(vendor)
		svc, _, _ := newTestSettlement(order)

		_, err := svc.MarkServiceCompleted(ctx, order.ID)
		assert.ErrorIs(t, err, ErrCompletionWrongState)
	})
}

func TestPayoutSplitsAcrossVendors(t *testing.T) {
	ctx := context.Background()
	vendorA := uuid.New()
	vendorB := uuid.New()

	order := confirmedOrder(vendorA)
	order.Items = ordermodel.OrderItems{
		{
			ServiceID:   uuid.New(),
			VendorID:    vendorA,
			ServiceName: "venue",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(6_000_000),
		},
		{
			ServiceID:   uuid.New(),
			VendorID:    vendorB,
			ServiceName: "catering",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(4_000_000),
		},
	}
	order.ComputeAmounts(decimal.Zero)

	svc, _, walletRepo := newTestSettlement(order)

	result, err := svc.ConfirmDeposit(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	// deposit 3,300,000 split 60/40, each netted 10%
	assert.True(t, walletRepo.wallets[vendorA].Balance.Equal(decimal.NewFromInt(1_782_000)),
		"vendor A got %s", walletRepo.wallets[vendorA].Balance)
	assert.True(t, walletRepo.wallets[vendorB].Balance.Equal(decimal.NewFromInt(1_188_000)),
		"vendor B got %s", walletRepo.wallets[vendorB].Balance)
}
