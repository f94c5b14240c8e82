package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weddinghub-backend/internal/domains/payment/model"
	"weddinghub-backend/internal/domains/payment/service"
	"weddinghub-backend/pkg/logger"
)

// PaymentHandler exposes the gateway webhook endpoint
type PaymentHandler struct {
	service service.PaymentService
}

// NewPaymentHandler creates the payment handler
func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes wires the webhook endpoints. These are unauthenticated;
// the callback signature is the authentication.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/zalopay", h.ZaloPayCallback)
}

// ZaloPayCallback handles the gateway's payment result delivery.
// The response body follows the gateway's ack contract, not the
// standard API envelope.
func (h *PaymentHandler) ZaloPayCallback(c *gin.Context) {
	var req model.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.CallbackAck{
			ReturnCode:    -1,
			ReturnMessage: "malformed callback body",
		})
		return
	}

	err := h.service.HandleCallback(c.Request.Context(), req.Data, req.MAC)
	if err != nil {
		var payErr *model.PaymentError
		if errors.As(err, &payErr) {
			// Business rejection: negative ack, no retry wanted
			c.JSON(http.StatusOK, model.CallbackAck{
				ReturnCode:    -1,
				ReturnMessage: payErr.Message,
			})
			return
		}

		// Infrastructure failure: ask the gateway to retry later
		logger.Error("payment callback processing failed", err)
		c.JSON(http.StatusOK, model.CallbackAck{
			ReturnCode:    0,
			ReturnMessage: "temporary failure",
		})
		return
	}

	c.JSON(http.StatusOK, model.CallbackAck{
		ReturnCode:    1,
		ReturnMessage: "success",
	})
}
