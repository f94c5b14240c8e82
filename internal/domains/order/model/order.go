package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// BUSINESS CONSTANTS
// =====================================================

var (
	// TaxRate is applied to the order subtotal
	TaxRate = decimal.NewFromFloat(0.10)

	// DepositRate is the deposit share of the order total
	DepositRate = decimal.NewFromFloat(0.30)

	// ServiceFeeRate is the platform fee deducted from each vendor payout
	ServiceFeeRate = decimal.NewFromFloat(0.10)
)

// =====================================================
// STATUS ENUMS
// =====================================================

// OrderStatus is the coarse order lifecycle state
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks the money side, orthogonal to OrderStatus
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PaymentMethod is how the customer chose to pay
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodZaloPay PaymentMethod = "zalopay"
)

// orderStatusTransitions defines the allowed lifecycle moves
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// FormatOrderCode builds the public order code from the allocation day
// and that day's sequence number. The sequence is zero-padded to three
// digits and grows naturally past 999.
func FormatOrderCode(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%03d", day.Format("060102"), seq)
}

// CanTransitionTo reports whether moving to target is a legal transition
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are accepted
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// =====================================================
// EMBEDDED DOCUMENTS (JSONB)
// =====================================================

// CustomerInfo is an immutable snapshot of the customer at order time
type CustomerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district"`
	Notes    string `json:"notes,omitempty"`
}

func (c CustomerInfo) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *CustomerInfo) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported type for CustomerInfo: %T", value)
	}
}

// OrderItem is a snapshot of one cart line at order time.
// Prices here never change even if the catalog does.
type OrderItem struct {
	ServiceID       uuid.UUID         `json:"serviceId"`
	VendorID        uuid.UUID         `json:"vendorId"`
	ServiceName     string            `json:"serviceName"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unitPrice"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

// Subtotal returns unitPrice * quantity for this line
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItems is the JSONB-stored item list
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return fmt.Errorf("unsupported type for OrderItems: %T", value)
	}
}

// PaymentTracking is the staged-payout milestone sub-ledger.
// Fully initialized at order creation so later milestone updates
// never deal with missing fields.
type PaymentTracking struct {
	DepositConfirmed   bool            `json:"depositConfirmed"`
	DepositAmount      decimal.Decimal `json:"depositAmount"`
	DepositConfirmedAt *time.Time      `json:"depositConfirmedAt,omitempty"`

	FullPaymentConfirmed   bool       `json:"fullPaymentConfirmed"`
	FullPaymentConfirmedAt *time.Time `json:"fullPaymentConfirmedAt,omitempty"`

	ServiceCompletedConfirmed   bool       `json:"serviceCompletedConfirmed"`
	ServiceCompletedConfirmedAt *time.Time `json:"serviceCompletedConfirmedAt,omitempty"`
}

// NewPaymentTracking returns the zero-valued milestone ledger
func NewPaymentTracking() PaymentTracking {
	return PaymentTracking{
		DepositAmount: decimal.Zero,
	}
}

func (p PaymentTracking) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PaymentTracking) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type for PaymentTracking: %T", value)
	}
}

// =====================================================
// ORDER ENTITY
// =====================================================

// Order is one purchase event. Created atomically from a cart,
// mutated only through the defined transitions, never hard-deleted.
type Order struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderCode string    `json:"orderCode" db:"order_code"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`

	CustomerInfo CustomerInfo `json:"customerInfo" db:"customer_info"`
	Items        OrderItems   `json:"items" db:"items"`

	Subtotal decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax      decimal.Decimal `json:"tax" db:"tax"`
	Discount decimal.Decimal `json:"discount" db:"discount"`
	Total    decimal.Decimal `json:"total" db:"total"`

	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
	OrderStatus   OrderStatus   `json:"orderStatus" db:"order_status"`

	PaymentTracking PaymentTracking `json:"paymentTracking" db:"payment_tracking"`

	// Instruments consumed at creation, kept for reversal on cancel
	RedeemedCouponCode   *string `json:"redeemedCouponCode,omitempty" db:"redeemed_coupon_code"`
	RedeemedPointsAmount int64   `json:"redeemedPointsAmount" db:"redeemed_points_amount"`

	// AppTransID is set when an outbound gateway request is made;
	// callbacks are cross-checked against it
	AppTransID *string `json:"appTransId,omitempty" db:"app_trans_id"`

	EventDate time.Time `json:"eventDate" db:"event_date"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ComputeAmounts recomputes subtotal, tax and total from the item
// snapshot. Client-supplied totals are never trusted.
func (o *Order) ComputeAmounts(discount decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal())
	}

	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(TaxRate).Round(2)
	o.Discount = discount
	o.Total = o.Subtotal.Add(o.Tax).Sub(o.Discount)
}

// CanBeCancelled reports whether cancellation is still allowed
func (o *Order) CanBeCancelled() bool {
	return o.OrderStatus == OrderStatusPending || o.OrderStatus == OrderStatusConfirmed
}

// DepositAmount returns the deposit share of the order total
func (o *Order) DepositAmount() decimal.Decimal {
	return o.Total.Mul(DepositRate).Round(2)
}

// RemainingAmount returns the total minus the deposit share
func (o *Order) RemainingAmount() decimal.Decimal {
	return o.Total.Sub(o.DepositAmount())
}
