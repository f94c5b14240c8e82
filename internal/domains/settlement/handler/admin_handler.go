package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermodel "weddinghub-backend/internal/domains/order/model"
	ordersvc "weddinghub-backend/internal/domains/order/service"
	"weddinghub-backend/internal/domains/settlement/service"
	walletmodel "weddinghub-backend/internal/domains/wallet/model"
	"weddinghub-backend/internal/shared/response"
	"weddinghub-backend/pkg/logger"
)

// AdminHandler exposes the settlement workflow to the admin UI
type AdminHandler struct {
	settlementSvc service.SettlementService
	orderSvc      ordersvc.OrderService
}

// NewAdminHandler creates the admin settlement handler
func NewAdminHandler(settlementSvc service.SettlementService, orderSvc ordersvc.OrderService) *AdminHandler {
	return &AdminHandler{
		settlementSvc: settlementSvc,
		orderSvc:      orderSvc,
	}
}

// RegisterRoutes wires the admin settlement endpoints.
// The group must already carry auth + admin-role middleware.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders/:id")
	{
		orders.GET("", h.GetOrder)
		orders.POST("/deposit", h.ConfirmDeposit)
		orders.POST("/full-payment", h.ConfirmFullPayment)
		orders.POST("/complete-service", h.MarkServiceCompleted)
		orders.POST("/cancel", h.CancelOrder)
	}
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderSvc.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *AdminHandler) ConfirmDeposit(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	result, err := h.settlementSvc.ConfirmDeposit(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

func (h *AdminHandler) ConfirmFullPayment(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	result, err := h.settlementSvc.ConfirmFullPayment(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

func (h *AdminHandler) MarkServiceCompleted(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	result, err := h.settlementSvc.MarkServiceCompleted(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

func (h *AdminHandler) CancelOrder(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req ordermodel.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "INVALID_BODY", "invalid request body")
		return
	}

	order, err := h.orderSvc.AdminCancelOrder(c.Request.Context(), orderID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *AdminHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}

func (h *AdminHandler) handleServiceError(c *gin.Context, err error) {
	var stlErr *service.SettlementError
	if errors.As(err, &stlErr) {
		response.Conflict(c, stlErr.Code, stlErr.Message)
		return
	}

	var orderErr *ordermodel.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case "ORD001":
			response.NotFound(c, orderErr.Code, orderErr.Message)
		case "ORD004", "ORD005", "ORD010":
			response.Conflict(c, orderErr.Code, orderErr.Message)
		default:
			response.BadRequest(c, orderErr.Code, orderErr.Message)
		}
		return
	}

	var walletErr *walletmodel.WalletError
	if errors.As(err, &walletErr) {
		response.Conflict(c, walletErr.Code, walletErr.Message)
		return
	}

	logger.Error("settlement handler internal error", err)
	response.InternalError(c, "something went wrong")
}
