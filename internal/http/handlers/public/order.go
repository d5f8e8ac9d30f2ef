package public

import (
	"strconv"
	"strings"

	"github.com/homemart-shop/internal/http/response"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"
	"github.com/homemart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID    uint         `json:"product_id" binding:"required"`
	Name         string       `json:"name" binding:"required"`
	VariantLabel string       `json:"variant_label"`
	UnitPrice    models.Money `json:"unit_price" binding:"required"`
	Quantity     int          `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	BuyerName    string             `json:"buyer_name" binding:"required"`
	BuyerPhone   string             `json:"buyer_phone" binding:"required"`
	BuyerAddress string             `json:"buyer_address" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder 创建订单（买家信息固化为快照）
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	var items []service.CreateOrderItem
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID:    item.ProductID,
			Name:         item.Name,
			VariantLabel: item.VariantLabel,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:       uid,
		BuyerName:    req.BuyerName,
		BuyerPhone:   req.BuyerPhone,
		BuyerAddress: req.BuyerAddress,
		Items:        items,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Success(c, service.NewOrderView(*order))
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	orderNo := strings.TrimSpace(c.Query("order_no"))

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   status,
		OrderNo:  orderNo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUser(uint(orderID), uid)
	if err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUserOrderNo(orderNo, uid)
	if err != nil {
		respondOrderAccessError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrderRequest 买家取消申请请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// RequestCancellation 买家提交取消申请（仅待付款展示状态下允许）
func (h *Handler) RequestCancellation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	request, err := h.CancellationService.RequestCancellation(uint(orderID), uid, req.Reason)
	if err != nil {
		respondCancellationRequestError(c, err)
		return
	}

	response.Success(c, request)
}

// RefundRequestPayload 退款申请请求
type RefundRequestPayload struct {
	Reason   string `json:"reason"`
	PhotoURL string `json:"photo_url" binding:"required"`
	VideoURL string `json:"video_url"`
}

// RequestRefund 买家提交退款申请（照片凭证必填）
func (h *Handler) RequestRefund(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	var req RefundRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_request", err)
		return
	}

	request, err := h.RefundService.RequestRefund(service.RequestRefundInput{
		OrderID:  uint(orderID),
		UserID:   uid,
		Reason:   req.Reason,
		PhotoURL: req.PhotoURL,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		respondRefundRequestError(c, err)
		return
	}

	response.Success(c, request)
}

// GetOrderSettlement 获取订单所属买家分组的结算
func (h *Handler) GetOrderSettlement(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	record, err := h.SettlementService.GetSettlementForOrder(c.Request.Context(), uint(orderID), uid)
	if err != nil {
		respondSettlementFetchError(c, err)
		return
	}

	response.Success(c, record)
}

// GetSettlement 按买家分组查询结算
func (h *Handler) GetSettlement(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	buyerName := strings.TrimSpace(c.Query("buyer_name"))
	buyerPhone := strings.TrimSpace(c.Query("buyer_phone"))
	if buyerName == "" || buyerPhone == "" {
		respondError(c, response.CodeBadRequest, "error.invalid_request", nil)
		return
	}

	record, err := h.SettlementService.GetSettlement(c.Request.Context(), buyerName, buyerPhone)
	if err != nil {
		respondSettlementFetchError(c, err)
		return
	}

	response.Success(c, record)
}
