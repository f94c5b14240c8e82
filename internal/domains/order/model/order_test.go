package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(prices ...int64) *Order {
	items := make(OrderItems, 0, len(prices))
	for _, p := range prices {
		items = append(items, OrderItem{
			ServiceID:   uuid.New(),
			VendorID:    uuid.New(),
			ServiceName: "test service",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(p),
		})
	}
	return &Order{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Items:           items,
		OrderStatus:     OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		PaymentTracking: NewPaymentTracking(),
	}
}

func TestComputeAmounts(t *testing.T) {
	t.Run("tax is 10 percent of subtotal", func(t *testing.T) {
		order := newTestOrder(10_000_000)
		order.ComputeAmounts(decimal.Zero)

		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(10_000_000)))
		assert.True(t, order.Tax.Equal(decimal.NewFromInt(1_000_000)))
		assert.True(t, order.Total.Equal(decimal.NewFromInt(11_000_000)))
	})

	t.Run("discount reduces total", func(t *testing.T) {
		order := newTestOrder(5_000_000)
		order.ComputeAmounts(decimal.NewFromInt(500_000))

		assert.True(t, order.Discount.Equal(decimal.NewFromInt(500_000)))
		assert.True(t, order.Total.Equal(decimal.NewFromInt(5_000_000)))
	})

	t.Run("total equals subtotal plus tax minus discount", func(t *testing.T) {
		order := newTestOrder(3_000_000, 2_000_000)
		order.ComputeAmounts(decimal.NewFromInt(1_000_000))

		expected := order.Subtotal.Add(order.Tax).Sub(order.Discount)
		assert.True(t, order.Total.Equal(expected))
	})

	t.Run("tax rounds to two decimals", func(t *testing.T) {
		order := newTestOrder()
		order.Items = OrderItems{{
			Quantity:  1,
			UnitPrice: decimal.NewFromFloat(99.99),
		}}
		order.ComputeAmounts(decimal.Zero)

		assert.True(t, order.Tax.Equal(decimal.NewFromFloat(10.00)),
			"got %s", order.Tax)
	})

	t.Run("quantity multiplies the unit price", func(t *testing.T) {
		order := newTestOrder()
		order.Items = OrderItems{{
			Quantity:  3,
			UnitPrice: decimal.NewFromInt(1_000_000),
		}}
		order.ComputeAmounts(decimal.Zero)

		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(3_000_000)))
	})
}

func TestFormatOrderCode(t *testing.T) {
	day := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		seq  int64
		want string
	}{
		{1, "240315001"},
		{42, "240315042"},
		{999, "240315999"},
		{1000, "2403151000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatOrderCode(day, tc.seq))
	}

	nextDay := day.AddDate(0, 0, 1)
	assert.Equal(t, "240316001", FormatOrderCode(nextDay, 1),
		"sequence restarts per day through the date prefix")
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusProcessing, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCompleted, false},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusProcessing, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusConfirmed.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
}

func TestCanBeCancelled(t *testing.T) {
	order := newTestOrder(1_000_000)

	order.OrderStatus = OrderStatusPending
	assert.True(t, order.CanBeCancelled())

	order.OrderStatus = OrderStatusConfirmed
	assert.True(t, order.CanBeCancelled())

	order.OrderStatus = OrderStatusProcessing
	assert.False(t, order.CanBeCancelled())

	order.OrderStatus = OrderStatusCompleted
	assert.False(t, order.CanBeCancelled())
}

func TestDepositAndRemainingAmounts(t *testing.T) {
	order := newTestOrder(10_000_000)
	order.ComputeAmounts(decimal.Zero)

	// total 11,000,000: deposit 30% = 3,300,000, remaining 7,700,000
	assert.True(t, order.DepositAmount().Equal(decimal.NewFromInt(3_300_000)),
		"got %s", order.DepositAmount())
	assert.True(t, order.RemainingAmount().Equal(decimal.NewFromInt(7_700_000)),
		"got %s", order.RemainingAmount())
}

func TestPaymentTrackingRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	tracking := PaymentTracking{
		DepositConfirmed:   true,
		DepositAmount:      decimal.NewFromInt(3_300_000),
		DepositConfirmedAt: &now,
	}

	raw, err := tracking.Value()
	require.NoError(t, err)

	var decoded PaymentTracking
	require.NoError(t, decoded.Scan(raw))

	assert.True(t, decoded.DepositConfirmed)
	assert.True(t, decoded.DepositAmount.Equal(tracking.DepositAmount))
	assert.False(t, decoded.FullPaymentConfirmed)
}

func TestCreateOrderRequestValidation(t *testing.T) {
	valid := CreateOrderRequest{
		CustomerInfo: CustomerInfoRequest{
			FullName: "Nguyen Van A",
			Email:    "a@example.com",
			Phone:    "0901234567",
			Address:  "12 Le Loi",
			City:     "Ho Chi Minh",
		},
		PaymentMethod: string(PaymentMethodCOD),
		EventDate:     time.Now().AddDate(0, 1, 0),
	}
	assert.NoError(t, valid.Validate())

	t.Run("rejects past event date", func(t *testing.T) {
		req := valid
		req.EventDate = time.Now().AddDate(0, 0, -1)
		assert.Error(t, req.Validate())
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		req := valid
		req.PaymentMethod = "bank-transfer"
		assert.Error(t, req.Validate())
	})

	t.Run("rejects negative points", func(t *testing.T) {
		req := valid
		req.PointsToUse = -5
		assert.Error(t, req.Validate())
	})

	t.Run("rejects missing customer email", func(t *testing.T) {
		req := valid
		req.CustomerInfo.Email = ""
		assert.Error(t, req.Validate())
	})
}
