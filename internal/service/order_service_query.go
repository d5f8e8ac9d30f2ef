package service

import (
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"
)

// OrderView 订单查询视图：规范状态 + 解析后的展示状态
type OrderView struct {
	models.Order
	DisplayStatus string `json:"display_status"`
	RefundStatus  string `json:"refund_status,omitempty"`
}

// NewOrderView 基于订单及其取消/退款历史构建查询视图
func NewOrderView(order models.Order) OrderView {
	resolved := ResolveOrderStatus(&order, order.Cancellations, order.RefundRequests)
	return OrderView{
		Order:         order,
		DisplayStatus: resolved.DisplayStatus,
		RefundStatus:  resolved.RefundStatus,
	}
}

func newOrderViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, NewOrderView(order))
	}
	return views
}

// GetOrderByUser 用户订单详情
func (s *OrderService) GetOrderByUser(orderID uint, userID uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	view := NewOrderView(*order)
	return &view, nil
}

// GetOrderByUserOrderNo 用户订单详情（按订单号）
func (s *OrderService) GetOrderByUserOrderNo(orderNo string, userID uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(orderNo, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	view := NewOrderView(*order)
	return &view, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]OrderView, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return newOrderViews(orders), total, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]OrderView, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return newOrderViews(orders), total, nil
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	view := NewOrderView(*order)
	return &view, nil
}
