package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-user shopping cart holding selected wedding services.
// Discount is a cart-level promotion amount applied before coupon/points.
type Cart struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"userId" db:"user_id"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// SelectedOptions is the free-form option map chosen for a line
// (package tier, color theme, extras), stored as JSONB
type SelectedOptions map[string]string

func (o SelectedOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *SelectedOptions) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("unsupported type for SelectedOptions: %T", value)
	}
}

// CartItem is one service line inside a cart.
// Price is the vendor's current listed price; the order snapshots it.
type CartItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CartID          uuid.UUID       `json:"cartId" db:"cart_id"`
	ServiceID       uuid.UUID       `json:"serviceId" db:"service_id"`
	VendorID        uuid.UUID       `json:"vendorId" db:"vendor_id"`
	ServiceName     string          `json:"serviceName" db:"service_name"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Quantity        int             `json:"quantity" db:"quantity"`
	SelectedOptions SelectedOptions `json:"selectedOptions,omitempty" db:"selected_options"`
	AddedAt         time.Time       `json:"addedAt" db:"added_at"`
}

// Subtotal returns price * quantity for this line
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
