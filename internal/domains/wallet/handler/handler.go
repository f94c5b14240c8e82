package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"weddinghub-backend/internal/domains/wallet/model"
	"weddinghub-backend/internal/domains/wallet/service"
	"weddinghub-backend/internal/shared/middleware"
	"weddinghub-backend/internal/shared/response"
	"weddinghub-backend/pkg/logger"
)

// WalletHandler exposes the payee wallet over HTTP
type WalletHandler struct {
	service service.WalletService
}

// NewWalletHandler creates the wallet handler
func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// RegisterRoutes wires the wallet endpoints for the authenticated payee
func (h *WalletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wallet := rg.Group("/wallet")
	{
		wallet.GET("", h.GetWallet)
		wallet.GET("/transactions", h.ListTransactions)
	}
}

func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	wallet, err := h.service.GetWallet(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, wallet)
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	txns, total, err := h.service.ListTransactions(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if limit < 1 {
		limit = 20
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	response.SuccessWithMeta(c, txns, &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

func (h *WalletHandler) handleServiceError(c *gin.Context, err error) {
	var walletErr *model.WalletError
	if errors.As(err, &walletErr) {
		switch walletErr.Code {
		case "WAL001":
			response.NotFound(c, walletErr.Code, walletErr.Message)
		case "WAL002", "WAL003":
			response.Conflict(c, walletErr.Code, walletErr.Message)
		default:
			response.BadRequest(c, walletErr.Code, walletErr.Message)
		}
		return
	}

	logger.Error("wallet handler internal error", err)
	response.InternalError(c, "something went wrong")
}
