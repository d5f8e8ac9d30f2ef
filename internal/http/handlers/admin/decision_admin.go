package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/homemart-shop/internal/http/response"
	"github.com/homemart-shop/internal/repository"
	"github.com/homemart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminCancellations 获取取消申请列表 (Admin)
func (h *Handler) GetAdminCancellations(c *gin.Context) {
	filter, ok := parseDecisionListFilter(c)
	if !ok {
		return
	}

	requests, total, err := h.CancellationService.ListCancellations(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(filter.Page, filter.PageSize, total)
	response.SuccessWithPage(c, requests, pagination)
}

// DecideAdminCancellation 审批取消申请（approve/reject 一次性生效）
func (h *Handler) DecideAdminCancellation(c *gin.Context) {
	requestID, approve, ok := parseDecision(c)
	if !ok {
		return
	}

	request, err := h.CancellationService.DecideCancellation(requestID, approve)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCancellationNotFound):
			respondError(c, response.CodeNotFound, "error.cancellation_not_found", nil)
		case errors.Is(err, service.ErrCancellationDecided):
			respondError(c, response.CodeBadRequest, "error.cancellation_decided", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	response.Success(c, request)
}

// GetAdminRefunds 获取退款申请列表 (Admin)
func (h *Handler) GetAdminRefunds(c *gin.Context) {
	filter, ok := parseDecisionListFilter(c)
	if !ok {
		return
	}

	requests, total, err := h.RefundService.ListRefundRequests(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(filter.Page, filter.PageSize, total)
	response.SuccessWithPage(c, requests, pagination)
}

// DecideAdminRefund 审批退款申请（approve/reject 一次性生效）
func (h *Handler) DecideAdminRefund(c *gin.Context) {
	requestID, approve, ok := parseDecision(c)
	if !ok {
		return
	}

	request, err := h.RefundService.DecideRefund(requestID, approve)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefundNotFound):
			respondError(c, response.CodeNotFound, "error.refund_not_found", nil)
		case errors.Is(err, service.ErrRefundDecided):
			respondError(c, response.CodeBadRequest, "error.refund_decided", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	response.Success(c, request)
}

func parseDecisionListFilter(c *gin.Context) (repository.DecisionListFilter, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.DecisionListFilter{
		Page:        page,
		PageSize:    pageSize,
		PendingOnly: c.Query("pending") == "true",
	}
	if raw := strings.TrimSpace(c.Query("order_id")); raw != "" {
		orderID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || orderID == 0 {
			respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
			return repository.DecisionListFilter{}, false
		}
		filter.OrderID = uint(orderID)
	}
	return filter, true
}

// parseDecision 解析申请 ID 与审批动作，路由形如 /:id/approve 或 /:id/reject。
func parseDecision(c *gin.Context) (uint, bool, bool) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requestID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return 0, false, false
	}
	switch c.Param("decision") {
	case "approve":
		return uint(requestID), true, true
	case "reject":
		return uint(requestID), false, true
	default:
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return 0, false, false
	}
}
