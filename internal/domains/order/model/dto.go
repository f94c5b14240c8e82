package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CustomerInfoRequest carries the customer snapshot for a new order
type CustomerInfoRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district"`
	Notes    string `json:"notes"`
}

func (r CustomerInfoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(8, 15)),
		validation.Field(&r.Address, validation.Required, validation.Length(5, 255)),
		validation.Field(&r.City, validation.Required),
		validation.Field(&r.Notes, validation.Length(0, 1000)),
	)
}

// CreateOrderRequest is the checkout payload
type CreateOrderRequest struct {
	CustomerInfo  CustomerInfoRequest `json:"customerInfo"`
	PaymentMethod string              `json:"paymentMethod"`
	EventDate     time.Time           `json:"eventDate"`
	CouponCode    string              `json:"couponCode"`
	PointsToUse   int64               `json:"pointsToUse"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomerInfo, validation.Required),
		validation.Field(&r.PaymentMethod, validation.Required, validation.In(
			string(PaymentMethodCOD),
			string(PaymentMethodZaloPay),
		)),
		validation.Field(&r.EventDate, validation.Required, validation.By(futureDate)),
		validation.Field(&r.PointsToUse, validation.Min(0)),
	)
}

func futureDate(value interface{}) error {
	date, ok := value.(time.Time)
	if !ok {
		return validation.NewError("validation_event_date", "invalid event date")
	}
	if !date.After(time.Now()) {
		return ErrInvalidEventDate
	}
	return nil
}

// CancelOrderRequest carries an optional cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (r CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

// ListOrdersQuery is the paging/filter query for order listings
type ListOrdersQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

// Normalize clamps paging values to sane defaults
func (q *ListOrdersQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// CreateOrderResponse is returned after successful checkout.
// PaymentURL is set only for gateway payments.
type CreateOrderResponse struct {
	Order      *Order `json:"order"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}
