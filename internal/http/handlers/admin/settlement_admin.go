package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/homemart-shop/internal/http/response"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminSettlements 获取结算记录列表 (Admin)
func (h *Handler) GetAdminSettlements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	records, total, err := h.SettlementService.ListSettlements(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.settlement_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, records, pagination)
}

// GetAdminSettlementByGroup 按买家分组查询结算 (Admin)
func (h *Handler) GetAdminSettlementByGroup(c *gin.Context) {
	buyerName := strings.TrimSpace(c.Query("buyer_name"))
	buyerPhone := strings.TrimSpace(c.Query("buyer_phone"))
	if buyerName == "" || buyerPhone == "" {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	record, err := h.SettlementService.GetSettlement(c.Request.Context(), buyerName, buyerPhone)
	if err != nil {
		if errors.Is(err, service.ErrSettlementNotFound) {
			respondError(c, response.CodeNotFound, "error.settlement_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.settlement_fetch_failed", err)
		return
	}

	response.Success(c, record)
}

// SetSettlementRequest 写入结算请求
type SetSettlementRequest struct {
	OrderID      uint          `json:"order_id" binding:"required"`
	ProductTotal *models.Money `json:"product_total"`
	ShippingFee  *models.Money `json:"shipping_fee"`
}

// SetAdminSettlement 管理端写入买家分组结算
func (h *Handler) SetAdminSettlement(c *gin.Context) {
	var req SetSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	record, err := h.SettlementService.SetSettlement(c.Request.Context(), service.SetSettlementInput{
		OrderID:      req.OrderID,
		ProductTotal: req.ProductTotal,
		ShippingFee:  req.ShippingFee,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrSettlementLocked):
			respondError(c, response.CodeBadRequest, "error.settlement_locked", nil)
		case errors.Is(err, service.ErrSettlementAmountInvalid):
			respondError(c, response.CodeBadRequest, "error.settlement_amount_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.settlement_save_failed", err)
		}
		return
	}

	response.Success(c, record)
}
