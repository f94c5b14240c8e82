package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	ordersvc "weddinghub-backend/internal/domains/order/service"
	"weddinghub-backend/internal/shared"
	"weddinghub-backend/pkg/container"
	"weddinghub-backend/pkg/logger"
)

// registerHandlers binds task types to their handlers
func registerHandlers(mux *asynq.ServeMux, c *container.Container) {
	mux.HandleFunc(shared.TaskPaymentPollPending, handlePaymentPollPending(c))
	mux.HandleFunc(shared.TaskOrderReconcileAlert, handleReconcileAlert)
}

// handlePaymentPollPending re-queries the gateway for payments that
// never received a callback
func handlePaymentPollPending(c *container.Container) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := c.PaymentService.PollPendingPayments(ctx); err != nil {
			return fmt.Errorf("payment poll failed: %w", err)
		}
		return nil
	}
}

// handleReconcileAlert surfaces an order whose redeemable commit failed
// after the order was persisted. The inconsistency is resolved by hand;
// retrying the commit automatically risks double-spending the instrument.
func handleReconcileAlert(ctx context.Context, t *asynq.Task) error {
	var payload ordersvc.ReconcileAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse reconcile alert payload: %w", err)
	}

	logger.ErrorFields("ORDER NEEDS MANUAL RECONCILIATION", nil, map[string]interface{}{
		"orderId":    payload.OrderID.String(),
		"orderCode":  payload.OrderCode,
		"userId":     payload.UserID.String(),
		"couponCode": payload.CouponCode,
		"points":     payload.Points,
		"reason":     payload.Reason,
	})

	return nil
}
