package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	cartrepo "weddinghub-backend/internal/domains/cart/repository"
	couponsvc "weddinghub-backend/internal/domains/coupon/service"
	"weddinghub-backend/internal/domains/order/model"
	"weddinghub-backend/internal/domains/order/repository"
	"weddinghub-backend/internal/domains/payment/gateway"
	"weddinghub-backend/internal/shared"
	"weddinghub-backend/pkg/logger"
)

// TaskEnqueuer is the slice of asynq.Client this service needs
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReconcileAlertPayload flags an order whose redeemable commit failed
// after the order itself was already persisted
type ReconcileAlertPayload struct {
	OrderID    uuid.UUID `json:"orderId"`
	OrderCode  string    `json:"orderCode"`
	UserID     uuid.UUID `json:"userId"`
	CouponCode string    `json:"couponCode,omitempty"`
	Points     int64     `json:"points,omitempty"`
	Reason     string    `json:"reason"`
}

type orderService struct {
	orderRepo  repository.OrderRepository
	cartRepo   cartrepo.CartRepository
	couponSvc  couponsvc.CouponService
	gateway    gateway.PaymentGateway
	taskClient TaskEnqueuer
}

// NewOrderService creates the order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo cartrepo.CartRepository,
	couponSvc couponsvc.CouponService,
	gw gateway.PaymentGateway,
	taskClient TaskEnqueuer,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		couponSvc:  couponSvc,
		gateway:    gw,
		taskClient: taskClient,
	}
}

// =====================================================
// CREATE ORDER
// =====================================================

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	// 1. Validate input before touching any state
	if err := req.Validate(); err != nil {
		return nil, model.ErrInvalidOrderRequest.WithCause(err)
	}

	// 2. Load the cart; an empty cart cannot become an order
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, model.ErrEmptyCart
	}

	cartItems, err := s.cartRepo.GetItemsByCartID(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	// 3. Snapshot the cart lines; catalog prices may change later
	items := make(model.OrderItems, 0, len(cartItems))
	subtotal := decimal.Zero
	for _, ci := range cartItems {
		items = append(items, model.OrderItem{
			ServiceID:       ci.ServiceID,
			VendorID:        ci.VendorID,
			ServiceName:     ci.ServiceName,
			Quantity:        ci.Quantity,
			UnitPrice:       ci.Price,
			SelectedOptions: ci.SelectedOptions,
		})
		subtotal = subtotal.Add(ci.Subtotal())
	}

	// 4. Validate redeemables against the computed subtotal
	discount := cart.Discount

	var couponValidation *couponsvc.CouponValidation
	if req.CouponCode != "" {
		couponValidation, err = s.couponSvc.ValidateCoupon(ctx, req.CouponCode, userID, subtotal)
		if err != nil {
			return nil, err
		}
		discount = discount.Add(couponValidation.DiscountAmount)
	}

	if req.PointsToUse > 0 {
		pointsValue, err := s.couponSvc.ValidatePoints(ctx, userID, req.PointsToUse)
		if err != nil {
			return nil, err
		}
		discount = discount.Add(pointsValue)
	}

	// The combined discount can never exceed what the order is worth;
	// a negative total must be unrepresentable.
	grossTotal := subtotal.Add(subtotal.Mul(model.TaxRate).Round(2))
	if discount.GreaterThan(grossTotal) {
		return nil, model.ErrDiscountExceedsTotal
	}

	// 5. Build the order; totals always recomputed server-side
	order := &model.Order{
		ID:     uuid.New(),
		UserID: userID,
		CustomerInfo: model.CustomerInfo{
			FullName: req.CustomerInfo.FullName,
			Email:    req.CustomerInfo.Email,
			Phone:    req.CustomerInfo.Phone,
			Address:  req.CustomerInfo.Address,
			City:     req.CustomerInfo.City,
			District: req.CustomerInfo.District,
			Notes:    req.CustomerInfo.Notes,
		},
		Items:                items,
		PaymentMethod:        model.PaymentMethod(req.PaymentMethod),
		PaymentStatus:        model.PaymentStatusPending,
		OrderStatus:          model.OrderStatusPending,
		PaymentTracking:      model.NewPaymentTracking(),
		RedeemedPointsAmount: req.PointsToUse,
		EventDate:            req.EventDate,
		Version:              1,
	}
	order.ComputeAmounts(discount)

	if couponValidation != nil {
		code := couponValidation.Coupon.Code
		order.RedeemedCouponCode = &code
	}

	// 6. Allocate the code, persist the order and clear the cart in one
	// transaction. Failure here leaves no order and no side effects.
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderCode, err := s.orderRepo.NextOrderCodeWithTx(ctx, tx, time.Now())
	if err != nil {
		return nil, model.ErrOrderCodeAllocation.WithCause(err)
	}
	order.OrderCode = orderCode

	if err := s.orderRepo.CreateWithTx(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if err := s.cartRepo.DeleteCartWithTx(ctx, tx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	// 7. The order is durable; consume the redeemables. A failure here
	// leaves the order with the discount applied but the instrument
	// unconsumed: logged and flagged for manual reconciliation, never
	// retried automatically.
	s.commitRedeemables(ctx, order, couponValidation, userID, req.PointsToUse)

	logger.Info("order created", map[string]interface{}{
		"orderCode": order.OrderCode,
		"userId":    userID.String(),
		"total":     order.Total.String(),
		"method":    string(order.PaymentMethod),
	})

	resp := &model.CreateOrderResponse{Order: order}

	// 8. Gateway orders get a payment URL; the order exists regardless
	// of whether the payment request succeeds.
	if order.PaymentMethod == model.PaymentMethodZaloPay {
		resp.PaymentURL = s.initGatewayPayment(ctx, order)
	}

	return resp, nil
}

func (s *orderService) commitRedeemables(ctx context.Context, order *model.Order, couponValidation *couponsvc.CouponValidation, userID uuid.UUID, points int64) {
	if couponValidation != nil {
		if err := s.couponSvc.CommitCoupon(ctx, couponValidation.Coupon, userID); err != nil {
			s.flagForReconciliation(order, userID, couponValidation.Coupon.Code, 0,
				"coupon commit failed after order persisted", err)
		}
	}

	if points > 0 {
		if err := s.couponSvc.CommitPoints(ctx, userID, points); err != nil {
			s.flagForReconciliation(order, userID, "", points,
				"points commit failed after order persisted", err)
		}
	}
}

func (s *orderService) flagForReconciliation(order *model.Order, userID uuid.UUID, couponCode string, points int64, reason string, cause error) {
	logger.ErrorFields(reason, cause, map[string]interface{}{
		"orderId":    order.ID.String(),
		"orderCode":  order.OrderCode,
		"couponCode": couponCode,
		"points":     points,
	})

	if s.taskClient == nil {
		return
	}

	payload, err := json.Marshal(ReconcileAlertPayload{
		OrderID:    order.ID,
		OrderCode:  order.OrderCode,
		UserID:     userID,
		CouponCode: couponCode,
		Points:     points,
		Reason:     reason,
	})
	if err != nil {
		logger.Error("failed to marshal reconcile alert payload", err)
		return
	}

	task := asynq.NewTask(shared.TaskOrderReconcileAlert, payload)
	if _, err := s.taskClient.Enqueue(task, asynq.Queue(shared.QueueCritical), asynq.MaxRetry(5)); err != nil {
		logger.Error("failed to enqueue reconcile alert", err)
	}
}

func (s *orderService) initGatewayPayment(ctx context.Context, order *model.Order) string {
	resp, err := s.gateway.CreatePayment(ctx, &gateway.CreatePaymentRequest{
		OrderCode:   order.OrderCode,
		UserID:      order.UserID.String(),
		Amount:      order.Total.IntPart(),
		Description: fmt.Sprintf("WeddingHub order %s", order.OrderCode),
	})
	if err != nil {
		logger.ErrorFields("gateway payment init failed", err, map[string]interface{}{
			"orderCode": order.OrderCode,
		})
		return ""
	}

	// Store the transaction id so the callback can be cross-checked
	order.AppTransID = &resp.AppTransID
	if err := s.orderRepo.Update(ctx, order); err != nil {
		logger.ErrorFields("failed to store gateway transaction id", err, map[string]interface{}{
			"orderCode":  order.OrderCode,
			"appTransId": resp.AppTransID,
		})
	}

	return resp.PaymentURL
}

// =====================================================
// QUERIES
// =====================================================

func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, model.ErrNotOrderOwner
	}

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, query *model.ListOrdersQuery) ([]model.Order, int64, error) {
	query.Normalize()
	return s.orderRepo.ListByUserID(ctx, userID, query)
}

// =====================================================
// STATUS TRANSITIONS
// =====================================================

func (s *orderService) ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.OrderStatus.IsTerminal() {
		return nil, model.ErrOrderTerminal
	}
	if !order.OrderStatus.CanTransitionTo(model.OrderStatusConfirmed) {
		return nil, model.ErrInvalidTransition
	}

	order.OrderStatus = model.OrderStatusConfirmed
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("order confirmed", map[string]interface{}{
		"orderCode": order.OrderCode,
	})

	return order, nil
}

func (s *orderService) ConfirmCODPayment(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.OrderStatus.IsTerminal() {
		return nil, model.ErrOrderTerminal
	}
	if order.PaymentMethod != model.PaymentMethodCOD {
		return nil, model.ErrInvalidPaymentMethod
	}
	if order.PaymentStatus != model.PaymentStatusPending {
		return nil, model.ErrPaymentNotPending
	}

	order.PaymentStatus = model.PaymentStatusCompleted
	if order.OrderStatus == model.OrderStatusPending {
		order.OrderStatus = model.OrderStatusConfirmed
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("cod payment confirmed", map[string]interface{}{
		"orderCode": order.OrderCode,
	})

	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error) {
	if req != nil {
		if err := req.Validate(); err != nil {
			return nil, model.ErrInvalidOrderRequest.WithCause(err)
		}
	}

	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	return s.cancel(ctx, order)
}

func (s *orderService) AdminCancelOrder(ctx context.Context, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error) {
	if req != nil {
		if err := req.Validate(); err != nil {
			return nil, model.ErrInvalidOrderRequest.WithCause(err)
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.cancel(ctx, order)
}

func (s *orderService) cancel(ctx context.Context, order *model.Order) (*model.Order, error) {
	// Cancellation allowed only before any payout milestone fired
	if !order.CanBeCancelled() {
		return nil, model.ErrOrderNotCancellable
	}

	order.OrderStatus = model.OrderStatusCancelled
	order.PaymentStatus = model.PaymentStatusCancelled

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	// Points are credited back; coupons stay consumed.
	if order.RedeemedPointsAmount > 0 {
		if err := s.couponSvc.RefundPoints(ctx, order.UserID, order.RedeemedPointsAmount); err != nil {
			s.flagForReconciliation(order, order.UserID, "", order.RedeemedPointsAmount,
				"points refund failed after cancellation", err)
		}
	}

	logger.Info("order cancelled", map[string]interface{}{
		"orderCode": order.OrderCode,
		"userId":    order.UserID.String(),
	})

	return order, nil
}
