package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	BuyerPhone  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// DecisionListFilter 查询审批申请列表的过滤条件
type DecisionListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	PendingOnly bool
}
