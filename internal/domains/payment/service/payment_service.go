package service

import (
	"context"
	"errors"
	"time"

	ordermodel "weddinghub-backend/internal/domains/order/model"
	orderrepo "weddinghub-backend/internal/domains/order/repository"
	"weddinghub-backend/internal/domains/payment/gateway"
	"weddinghub-backend/internal/domains/payment/gateway/zalopay"
	"weddinghub-backend/internal/domains/payment/model"
	"weddinghub-backend/pkg/logger"
)

// PollConfig tunes the pending-payment polling job
type PollConfig struct {
	PendingAfter time.Duration
	Limit        int
}

type paymentService struct {
	orderRepo orderrepo.OrderRepository
	gateway   gateway.PaymentGateway
	pollCfg   PollConfig
}

// NewPaymentService creates the payment service
func NewPaymentService(orderRepo orderrepo.OrderRepository, gw gateway.PaymentGateway, pollCfg PollConfig) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		gateway:   gw,
		pollCfg:   pollCfg,
	}
}

func (s *paymentService) HandleCallback(ctx context.Context, data string, mac string) error {
	// 1. Verify the signature before trusting anything in the payload
	result, err := s.gateway.VerifyCallback(data, mac)
	if err != nil {
		if errors.Is(err, zalopay.ErrInvalidSignature) {
			logger.Warn("payment callback rejected: bad signature", nil)
			return model.ErrInvalidSignature
		}
		return model.NewPaymentError("PAY004", "callback payload could not be parsed", err)
	}

	// 2. Resolve the order through the stored transaction id
	order, err := s.orderRepo.GetByAppTransID(ctx, result.AppTransID)
	if err != nil {
		if errors.Is(err, ordermodel.ErrOrderNotFound) {
			logger.Warn("payment callback for unknown transaction", map[string]interface{}{
				"appTransId": result.AppTransID,
			})
			return model.ErrUnknownTransaction
		}
		return err
	}

	// 3. Cross-check the embedded order code against the stored order.
	// A valid signature for the wrong order is still rejected.
	if result.OrderCode != "" && result.OrderCode != order.OrderCode {
		logger.Warn("payment callback order code mismatch", map[string]interface{}{
			"appTransId": result.AppTransID,
			"expected":   order.OrderCode,
			"received":   result.OrderCode,
		})
		return model.ErrOrderCodeMismatch
	}

	// 4. Idempotency: the gateway may retry delivery. An already
	// completed payment is acknowledged without re-applying anything.
	if order.PaymentStatus == ordermodel.PaymentStatusCompleted {
		logger.Info("payment callback replay ignored", map[string]interface{}{
			"orderCode": order.OrderCode,
		})
		return nil
	}

	return s.applyGatewayResult(ctx, order, true, result.GatewayRef)
}

// applyGatewayResult records a resolved gateway payment on the order
func (s *paymentService) applyGatewayResult(ctx context.Context, order *ordermodel.Order, success bool, gatewayRef string) error {
	if success {
		order.PaymentStatus = ordermodel.PaymentStatusCompleted
		if order.OrderStatus == ordermodel.OrderStatusPending {
			order.OrderStatus = ordermodel.OrderStatusConfirmed
		}
	} else {
		// Failed payment leaves the order status untouched
		order.PaymentStatus = ordermodel.PaymentStatusFailed
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	logger.Info("gateway payment resolved", map[string]interface{}{
		"orderCode":  order.OrderCode,
		"success":    success,
		"gatewayRef": gatewayRef,
	})

	return nil
}

func (s *paymentService) PollPendingPayments(ctx context.Context) error {
	cutoff := time.Now().Add(-s.pollCfg.PendingAfter)

	orders, err := s.orderRepo.ListPendingGatewayPayments(ctx, cutoff, s.pollCfg.Limit)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if order.AppTransID == nil {
			continue
		}

		status, err := s.gateway.QueryStatus(ctx, *order.AppTransID)
		if err != nil {
			logger.ErrorFields("gateway status query failed", err, map[string]interface{}{
				"orderCode": order.OrderCode,
			})
			continue
		}

		switch status {
		case gateway.StatusSuccess:
			o := order
			if err := s.applyGatewayResult(ctx, &o, true, ""); err != nil {
				logger.ErrorFields("failed to apply polled payment success", err,
					map[string]interface{}{"orderCode": order.OrderCode})
			}
		case gateway.StatusFailed:
			o := order
			if err := s.applyGatewayResult(ctx, &o, false, ""); err != nil {
				logger.ErrorFields("failed to apply polled payment failure", err,
					map[string]interface{}{"orderCode": order.OrderCode})
			}
		case gateway.StatusPending:
			// Still in flight; the next run will pick it up again
		}
	}

	return nil
}
