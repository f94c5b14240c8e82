package service

import (
	"context"
)

// PaymentService processes gateway callbacks and polls delayed payments
type PaymentService interface {
	// HandleCallback verifies and applies a gateway payment callback.
	// Safe to invoke more than once for the same transaction: an order
	// whose payment is already completed is a no-op success.
	HandleCallback(ctx context.Context, data string, mac string) error

	// PollPendingPayments queries the gateway for orders whose payment
	// has been pending longer than the configured window and applies
	// the resolved status. Used when a callback was delayed or lost.
	PollPendingPayments(ctx context.Context) error
}
