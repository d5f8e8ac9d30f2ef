package service

import (
	"strings"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/models"
)

// ResolvedStatus 订单展示状态（规范状态 + 取消/退款历史叠加后的结果）
type ResolvedStatus struct {
	DisplayStatus string `json:"display_status"`
	RefundStatus  string `json:"refund_status,omitempty"`
}

// 规范状态到展示文案的映射
var displayStatusLabels = map[string]string{
	constants.OrderStatusPending:         constants.DisplayStatusUnpaid,
	constants.OrderStatusProcessing:      constants.DisplayStatusProcessing,
	constants.OrderStatusShipped:         constants.DisplayStatusShipped,
	constants.OrderStatusDelivered:       constants.DisplayStatusArrived,
	constants.OrderStatusCompleted:       constants.DisplayStatusCompleted,
	constants.OrderStatusCancelled:       constants.DisplayStatusCancelledByAdmin,
	constants.OrderStatusInRefundProcess: constants.DisplayStatusInRefundProcess,
}

// ResolveOrderStatus 计算订单展示状态。
// 纯函数：只读入参，不触达存储。规则按优先级匹配，先中先出：
// 买家取消待审批 > 买家取消已批准 > 卖家取消/规范 cancelled > 最新退款申请 > 规范状态文案。
func ResolveOrderStatus(order *models.Order, cancellations []models.Cancellation, refunds []models.RefundRequest) ResolvedStatus {
	resolved := ResolvedStatus{
		RefundStatus: resolveRefundDisplay(refunds),
	}
	if order == nil {
		return resolved
	}

	var buyerPending, buyerApproved, sellerCancel bool
	for i := range cancellations {
		c := &cancellations[i]
		switch c.Initiator {
		case constants.CancelInitiatorBuyer:
			if c.Decision == nil {
				buyerPending = true
			} else if *c.Decision == constants.DecisionApproved {
				buyerApproved = true
			}
		case constants.CancelInitiatorSeller:
			sellerCancel = true
		}
	}

	switch {
	case buyerPending:
		resolved.DisplayStatus = constants.DisplayStatusAwaitingDecision
		return resolved
	case buyerApproved:
		resolved.DisplayStatus = constants.DisplayStatusCancellationGranted
		return resolved
	case sellerCancel || normalizeStatus(order.Status) == constants.OrderStatusCancelled:
		resolved.DisplayStatus = constants.DisplayStatusCancelledByAdmin
		return resolved
	}

	if latest := latestRefundRequest(refunds); latest != nil && latest.Decision != nil {
		switch *latest.Decision {
		case constants.DecisionApproved:
			resolved.DisplayStatus = constants.DisplayStatusInRefundProcess
			return resolved
		case constants.DecisionRejected:
			resolved.DisplayStatus = constants.DisplayStatusCompleted
			return resolved
		}
	}

	if label, ok := displayStatusLabels[normalizeStatus(order.Status)]; ok {
		resolved.DisplayStatus = label
	} else {
		resolved.DisplayStatus = order.Status
	}
	return resolved
}

// resolveRefundDisplay 仅由最新一条退款申请决定退款展示状态
func resolveRefundDisplay(refunds []models.RefundRequest) string {
	latest := latestRefundRequest(refunds)
	if latest == nil {
		return ""
	}
	if latest.Decision == nil {
		return constants.RefundDisplayRequested
	}
	switch *latest.Decision {
	case constants.DecisionApproved:
		return constants.RefundDisplayApproved
	case constants.DecisionRejected:
		return constants.RefundDisplayRejected
	}
	return ""
}

// latestRefundRequest 取申请时间最新的一条；同一时刻按 ID 较大者
func latestRefundRequest(refunds []models.RefundRequest) *models.RefundRequest {
	var latest *models.RefundRequest
	for i := range refunds {
		r := &refunds[i]
		if latest == nil {
			latest = r
			continue
		}
		if r.RequestedAt.After(latest.RequestedAt) {
			latest = r
			continue
		}
		if r.RequestedAt.Equal(latest.RequestedAt) && r.ID > latest.ID {
			latest = r
		}
	}
	return latest
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// isCanonicalStatus 目标状态是否属于规范状态枚举
func isCanonicalStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCompleted,
		constants.OrderStatusCancelled,
		constants.OrderStatusInRefundProcess:
		return true
	}
	return false
}
