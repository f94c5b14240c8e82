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

	cartmodel "weddinghub-backend/internal/domains/cart/model"
	cartrepo "weddinghub-backend/internal/domains/cart/repository"
	couponmodel "weddinghub-backend/internal/domains/coupon/model"
	couponsvc "weddinghub-backend/internal/domains/coupon/service"
	"weddinghub-backend/internal/domains/order/model"
)

// fakeTx only tracks commit/rollback; statements run against the fake repo
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeOrderRepo is an in-memory OrderRepository with a working
// transactional creation path
type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	seq    int64
	lastTx *fakeTx
}

func newFakeOrderRepo(orders ...*model.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) BeginTx(context.Context) (pgx.Tx, error) {
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeOrderRepo) NextOrderCodeWithTx(_ context.Context, _ pgx.Tx, now time.Time) (string, error) {
	f.seq++
	return model.FormatOrderCode(now, f.seq), nil
}

func (f *fakeOrderRepo) CreateWithTx(_ context.Context, _ pgx.Tx, order *model.Order) error {
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetByCode(context.Context, string) (*model.Order, error) {
	panic("not used in these tests")
}

func (f *fakeOrderRepo) GetByAppTransID(context.Context, string) (*model.Order, error) {
	panic("not used in these tests")
}

func (f *fakeOrderRepo) ListByUserID(context.Context, uuid.UUID, *model.ListOrdersQuery) ([]model.Order, int64, error) {
	panic("not used in these tests")
}

func (f *fakeOrderRepo) ListPendingGatewayPayments(context.Context, time.Time, int) ([]model.Order, error) {
	panic("not used in these tests")
}

func (f *fakeOrderRepo) Update(_ context.Context, order *model.Order) error {
	stored, ok := f.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return model.ErrOrderNotFound
	}
	order.Version++
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

// fakeCartRepo serves a single in-memory cart
type fakeCartRepo struct {
	cart  *cartmodel.Cart
	items []cartmodel.CartItem
}

func (f *fakeCartRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	if f.cart == nil || f.cart.UserID != userID {
		return nil, cartrepo.ErrCartNotFound
	}
	return f.cart, nil
}

func (f *fakeCartRepo) GetItemsByCartID(context.Context, uuid.UUID) ([]cartmodel.CartItem, error) {
	return f.items, nil
}

func (f *fakeCartRepo) DeleteCartWithTx(context.Context, pgx.Tx, uuid.UUID) error {
	f.cart = nil
	f.items = nil
	return nil
}

// fakeCouponService records redeemable operations
type fakeCouponService struct {
	validateErr     error
	refunded        map[uuid.UUID]int64
	committedCodes  []string
	committedPoints int64
}

func newFakeCouponService() *fakeCouponService {
	return &fakeCouponService{refunded: make(map[uuid.UUID]int64)}
}

func (f *fakeCouponService) ValidateCoupon(_ context.Context, code string, _ uuid.UUID, subtotal decimal.Decimal) (*couponsvc.CouponValidation, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return &couponsvc.CouponValidation{
		Coupon:         &couponmodel.Coupon{ID: uuid.New(), Code: code},
		DiscountAmount: decimal.NewFromInt(100_000),
	}, nil
}

func (f *fakeCouponService) ValidatePoints(_ context.Context, _ uuid.UUID, points int64) (decimal.Decimal, error) {
	return couponmodel.PointsToAmount(points), nil
}

func (f *fakeCouponService) CommitCoupon(_ context.Context, coupon *couponmodel.Coupon, _ uuid.UUID) error {
	f.committedCodes = append(f.committedCodes, coupon.Code)
	return nil
}

func (f *fakeCouponService) CommitPoints(_ context.Context, _ uuid.UUID, points int64) error {
	f.committedPoints += points
	return nil
}

func (f *fakeCouponService) RefundPoints(_ context.Context, userID uuid.UUID, points int64) error {
	f.refunded[userID] += points
	return nil
}

func pendingOrder(userID uuid.UUID) *model.Order {
	order := &model.Order{
		ID:        uuid.New(),
		OrderCode: "240315001",
		UserID:    userID,
		Items: model.OrderItems{{
			VendorID:  uuid.New(),
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(5_000_000),
		}},
		PaymentMethod:   model.PaymentMethodCOD,
		PaymentStatus:   model.PaymentStatusPending,
		OrderStatus:     model.OrderStatusPending,
		PaymentTracking: model.NewPaymentTracking(),
		Version:         1,
	}
	order.ComputeAmounts(decimal.Zero)
	return order
}

func validCreateRequest() *model.CreateOrderRequest {
	return &model.CreateOrderRequest{
		CustomerInfo: model.CustomerInfoRequest{
			FullName: "Tran Thi B",
			Email:    "b@example.com",
			Phone:    "0907654321",
			Address:  "34 Nguyen Hue",
			City:     "Da Nang",
		},
		PaymentMethod: string(model.PaymentMethodCOD),
		EventDate:     time.Now().AddDate(0, 2, 0),
	}
}

func TestCreateOrderSaga(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newCart := func() *fakeCartRepo {
		return &fakeCartRepo{
			cart: &cartmodel.Cart{ID: uuid.New(), UserID: userID},
			items: []cartmodel.CartItem{{
				ServiceID:   uuid.New(),
				VendorID:    uuid.New(),
				ServiceName: "Venue decoration",
				Price:       decimal.NewFromInt(10_000_000),
				Quantity:    1,
				SelectedOptions: cartmodel.SelectedOptions{
					"package": "premium",
					"theme":   "rustic",
				},
			}},
		}
	}

	t.Run("persists the order, clears the cart and consumes redeemables", func(t *testing.T) {
		repo := newFakeOrderRepo()
		cartRepo := newCart()
		couponSvc := newFakeCouponService()
		svc := NewOrderService(repo, cartRepo, couponSvc, nil, nil)

		req := validCreateRequest()
		req.CouponCode = "WELCOME"
		req.PointsToUse = 50

		resp, err := svc.CreateOrder(ctx, userID, req)
		require.NoError(t, err)

		order := resp.Order
		assert.Equal(t, model.FormatOrderCode(time.Now(), 1), order.OrderCode)
		// 10,000,000 + 10% tax - (100,000 coupon + 50,000 points)
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(10_000_000)))
		assert.True(t, order.Total.Equal(decimal.NewFromInt(10_850_000)))

		stored, ok := repo.orders[order.ID]
		require.True(t, ok, "order must be persisted")
		require.Len(t, stored.Items, 1)
		assert.Equal(t, "premium", stored.Items[0].SelectedOptions["package"])
		assert.Equal(t, "rustic", stored.Items[0].SelectedOptions["theme"])
		require.NotNil(t, stored.RedeemedCouponCode)
		assert.Equal(t, "WELCOME", *stored.RedeemedCouponCode)

		assert.True(t, repo.lastTx.committed)
		assert.Nil(t, cartRepo.cart, "cart must be cleared")
		assert.Equal(t, []string{"WELCOME"}, couponSvc.committedCodes)
		assert.Equal(t, int64(50), couponSvc.committedPoints)
	})

	t.Run("order codes increase within a day", func(t *testing.T) {
		repo := newFakeOrderRepo()
		cartRepo := newCart()
		svc := NewOrderService(repo, cartRepo, newFakeCouponService(), nil, nil)

		first, err := svc.CreateOrder(ctx, userID, validCreateRequest())
		require.NoError(t, err)

		refill := newCart()
		cartRepo.cart, cartRepo.items = refill.cart, refill.items

		second, err := svc.CreateOrder(ctx, userID, validCreateRequest())
		require.NoError(t, err)

		assert.Equal(t, model.FormatOrderCode(time.Now(), 1), first.Order.OrderCode)
		assert.Equal(t, model.FormatOrderCode(time.Now(), 2), second.Order.OrderCode)
	})
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("rejects malformed request before any side effects", func(t *testing.T) {
		cartRepo := &fakeCartRepo{
			cart: &cartmodel.Cart{ID: uuid.New(), UserID: userID},
			items: []cartmodel.CartItem{{
				Price: decimal.NewFromInt(1_000_000), Quantity: 1,
			}},
		}
		svc := NewOrderService(newFakeOrderRepo(), cartRepo, newFakeCouponService(), nil, nil)

		req := validCreateRequest()
		req.EventDate = time.Now().AddDate(0, 0, -1)

		_, err := svc.CreateOrder(ctx, userID, req)
		assert.Error(t, err)
		assert.NotNil(t, cartRepo.cart, "cart must be untouched")
	})

	t.Run("rejects a missing cart", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderRepo(), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.CreateOrder(ctx, userID, validCreateRequest())
		assert.ErrorIs(t, err, model.ErrEmptyCart)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		cartRepo := &fakeCartRepo{cart: &cartmodel.Cart{ID: uuid.New(), UserID: userID}}
		svc := NewOrderService(newFakeOrderRepo(), cartRepo, newFakeCouponService(), nil, nil)

		_, err := svc.CreateOrder(ctx, userID, validCreateRequest())
		assert.ErrorIs(t, err, model.ErrEmptyCart)
	})

	t.Run("rejects a discount exceeding the order total", func(t *testing.T) {
		cartRepo := &fakeCartRepo{
			cart: &cartmodel.Cart{ID: uuid.New(), UserID: userID},
			items: []cartmodel.CartItem{{
				Price: decimal.NewFromInt(1_000_000), Quantity: 1,
			}},
		}
		svc := NewOrderService(newFakeOrderRepo(), cartRepo, newFakeCouponService(), nil, nil)

		req := validCreateRequest()
		req.PointsToUse = 2000 // worth 2,000,000 against a 1,100,000 order

		_, err := svc.CreateOrder(ctx, userID, req)
		assert.ErrorIs(t, err, model.ErrDiscountExceedsTotal)
		assert.NotNil(t, cartRepo.cart, "cart must be untouched")
	})

	t.Run("coupon rejection aborts creation", func(t *testing.T) {
		cartRepo := &fakeCartRepo{
			cart: &cartmodel.Cart{ID: uuid.New(), UserID: userID},
			items: []cartmodel.CartItem{{
				Price: decimal.NewFromInt(1_000_000), Quantity: 1,
			}},
		}
		couponSvc := newFakeCouponService()
		couponSvc.validateErr = couponmodel.ErrCouponExpired
		svc := NewOrderService(newFakeOrderRepo(), cartRepo, couponSvc, nil, nil)

		req := validCreateRequest()
		req.CouponCode = "EXPIRED"

		_, err := svc.CreateOrder(ctx, userID, req)
		assert.ErrorIs(t, err, couponmodel.ErrCouponExpired)
		assert.NotNil(t, cartRepo.cart, "cart must be untouched")
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("cancels and refunds points but not coupons", func(t *testing.T) {
		order := pendingOrder(userID)
		couponCode := "WELCOME"
		order.RedeemedCouponCode = &couponCode
		order.RedeemedPointsAmount = 50

		repo := newFakeOrderRepo(order)
		couponSvc := newFakeCouponService()
		svc := NewOrderService(repo, &fakeCartRepo{}, couponSvc, nil, nil)

		cancelled, err := svc.CancelOrder(ctx, userID, order.ID, &model.CancelOrderRequest{Reason: "changed plans"})
		require.NoError(t, err)

		assert.Equal(t, model.OrderStatusCancelled, cancelled.OrderStatus)
		assert.Equal(t, model.PaymentStatusCancelled, cancelled.PaymentStatus)
		assert.Equal(t, int64(50), couponSvc.refunded[userID])
	})

	t.Run("rejected once processing", func(t *testing.T) {
		order := pendingOrder(userID)
		order.OrderStatus = model.OrderStatusProcessing
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.CancelOrder(ctx, userID, order.ID, nil)
		assert.ErrorIs(t, err, model.ErrOrderNotCancellable)
	})

	t.Run("rejected for another user's order", func(t *testing.T) {
		order := pendingOrder(userID)
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.CancelOrder(ctx, uuid.New(), order.ID, nil)
		assert.ErrorIs(t, err, model.ErrNotOrderOwner)
	})

	t.Run("admin cancel skips the ownership check", func(t *testing.T) {
		order := pendingOrder(userID)
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		cancelled, err := svc.AdminCancelOrder(ctx, order.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, cancelled.OrderStatus)
	})
}

func TestConfirmCODPayment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("completes payment and confirms the order", func(t *testing.T) {
		order := pendingOrder(userID)
		repo := newFakeOrderRepo(order)
		svc := NewOrderService(repo, &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		confirmed, err := svc.ConfirmCODPayment(ctx, userID, order.ID)
		require.NoError(t, err)

		assert.Equal(t, model.PaymentStatusCompleted, confirmed.PaymentStatus)
		assert.Equal(t, model.OrderStatusConfirmed, confirmed.OrderStatus)
	})

	t.Run("rejected for gateway orders", func(t *testing.T) {
		order := pendingOrder(userID)
		order.PaymentMethod = model.PaymentMethodZaloPay
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.ConfirmCODPayment(ctx, userID, order.ID)
		assert.ErrorIs(t, err, model.ErrInvalidPaymentMethod)
	})

	t.Run("rejected for cancelled orders", func(t *testing.T) {
		order := pendingOrder(userID)
		order.OrderStatus = model.OrderStatusCancelled
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.ConfirmCODPayment(ctx, userID, order.ID)
		assert.ErrorIs(t, err, model.ErrOrderTerminal)
	})

	t.Run("rejected when payment already resolved", func(t *testing.T) {
		order := pendingOrder(userID)
		order.PaymentStatus = model.PaymentStatusCompleted
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.ConfirmCODPayment(ctx, userID, order.ID)
		assert.ErrorIs(t, err, model.ErrPaymentNotPending)
	})
}

func TestConfirmOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("pending becomes confirmed", func(t *testing.T) {
		order := pendingOrder(uuid.New())
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		confirmed, err := svc.ConfirmOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusConfirmed, confirmed.OrderStatus)
	})

	t.Run("completed orders cannot be confirmed", func(t *testing.T) {
		order := pendingOrder(uuid.New())
		order.OrderStatus = model.OrderStatusCompleted
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.ConfirmOrder(ctx, order.ID)
		assert.ErrorIs(t, err, model.ErrOrderTerminal)
	})

	t.Run("processing orders cannot move back to confirmed", func(t *testing.T) {
		order := pendingOrder(uuid.New())
		order.OrderStatus = model.OrderStatusProcessing
		svc := NewOrderService(newFakeOrderRepo(order), &fakeCartRepo{}, newFakeCouponService(), nil, nil)

		_, err := svc.ConfirmOrder(ctx, order.ID)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
	})
}
