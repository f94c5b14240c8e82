package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	couponmodel "weddinghub-backend/internal/domains/coupon/model"
	"weddinghub-backend/internal/domains/order/model"
	"weddinghub-backend/internal/domains/order/service"
	"weddinghub-backend/internal/shared/middleware"
	"weddinghub-backend/internal/shared/response"
	"weddinghub-backend/pkg/logger"
)

// OrderHandler exposes the order lifecycle over HTTP
type OrderHandler struct {
	service service.OrderService
}

// NewOrderHandler creates the order handler
func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes wires the customer-facing order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/confirm-cod", h.ConfirmCODPayment)
	}
}

// RegisterAdminRoutes wires the admin order endpoints
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/:id/confirm", h.ConfirmOrder)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "invalid request body")
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Created(c, resp)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var query model.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "INVALID_QUERY", "invalid query parameters")
		return
	}
	query.Normalize()

	orders, total, err := h.service.ListOrders(c.Request.Context(), userID, &query)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	response.SuccessWithMeta(c, orders, &response.Meta{
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid order id")
		return
	}

	var req model.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, "INVALID_BODY", "invalid request body")
		return
	}

	order, err := h.service.CancelOrder(c.Request.Context(), userID, orderID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *OrderHandler) ConfirmCODPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid order id")
		return
	}

	order, err := h.service.ConfirmCODPayment(c.Request.Context(), userID, orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "invalid order id")
		return
	}

	order, err := h.service.ConfirmOrder(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, order)
}

// handleServiceError maps domain errors onto HTTP statuses
func (h *OrderHandler) handleServiceError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case "ORD001":
			response.NotFound(c, orderErr.Code, orderErr.Message)
		case "ORD004", "ORD005", "ORD009", "ORD010":
			response.Conflict(c, orderErr.Code, orderErr.Message)
		case "ORD006":
			response.InternalError(c, orderErr.Message)
		case "ORD007":
			response.Forbidden(c, orderErr.Message)
		default:
			response.BadRequest(c, orderErr.Code, orderErr.Message)
		}
		return
	}

	var couponErr *couponmodel.CouponError
	if errors.As(err, &couponErr) {
		response.BadRequest(c, couponErr.Code, couponErr.Message)
		return
	}

	logger.Error("order handler internal error", err)
	response.InternalError(c, "something went wrong")
}
