package service

import (
	"errors"
	"strings"
	"time"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/logger"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/queue"
	"github.com/homemart-shop/internal/repository"

	"gorm.io/gorm"
)

// RefundService 退款流程服务
type RefundService struct {
	orderRepo   repository.OrderRepository
	refundRepo  repository.RefundRepository
	queueClient *queue.Client
}

// NewRefundService 创建退款流程服务
func NewRefundService(orderRepo repository.OrderRepository, refundRepo repository.RefundRepository, queueClient *queue.Client) *RefundService {
	return &RefundService{
		orderRepo:   orderRepo,
		refundRepo:  refundRepo,
		queueClient: queueClient,
	}
}

// RequestRefundInput 买家退款申请输入
type RequestRefundInput struct {
	OrderID  uint
	UserID   uint
	Reason   string
	PhotoURL string
	VideoURL string
}

// RequestRefund 买家发起退款申请（仅到货/已完成展示状态下允许，照片凭证必填）
func (s *RefundService) RequestRefund(input RequestRefundInput) (*models.RefundRequest, error) {
	photoURL := strings.TrimSpace(input.PhotoURL)
	if photoURL == "" {
		return nil, ErrRefundPhotoRequired
	}

	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	resolved := ResolveOrderStatus(order, order.Cancellations, order.RefundRequests)
	if resolved.DisplayStatus != constants.DisplayStatusArrived &&
		resolved.DisplayStatus != constants.DisplayStatusCompleted {
		return nil, ErrRefundNotAllowed
	}

	pending, err := s.refundRepo.HasPendingRequest(order.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if pending {
		return nil, ErrRefundPending
	}

	request := &models.RefundRequest{
		OrderID:     order.ID,
		Reason:      strings.TrimSpace(input.Reason),
		PhotoURL:    photoURL,
		VideoURL:    strings.TrimSpace(input.VideoURL),
		RequestedAt: time.Now(),
	}
	if err := s.refundRepo.Create(request); err != nil {
		logger.Errorw("refund_request_create_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	return request, nil
}

// DecideRefund 管理端审批退款申请（一次性，先到先得）。
// 批准时订单规范状态进入退款中；驳回不回写订单，历史保留。
func (s *RefundService) DecideRefund(requestID uint, approve bool) (*models.RefundRequest, error) {
	request, err := s.refundRepo.GetByID(requestID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if request == nil {
		return nil, ErrRefundNotFound
	}
	if request.Decision != nil {
		return nil, ErrRefundDecided
	}

	decision := constants.DecisionRejected
	if approve {
		decision = constants.DecisionApproved
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		refundRepo := s.refundRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		rows, err := refundRepo.Decide(request.ID, decision, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// 并发审批，先到者已写入
			return ErrRefundDecided
		}
		if !approve {
			return nil
		}

		order, err := orderRepo.GetByID(request.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		affected, err := orderRepo.UpdateGuarded(order.ID, order.Version, map[string]interface{}{
			"status":     constants.OrderStatusInRefundProcess,
			"updated_at": now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOrderUpdateFailed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRefundDecided) {
			return nil, ErrRefundDecided
		}
		logger.Errorw("refund_decide_failed", "request_id", request.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	request.Decision = &decision
	request.DecidedAt = &now

	if s.queueClient != nil {
		status := constants.OrderStatusInRefundProcess
		if !approve {
			status = constants.OrderStatusCompleted
		}
		if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, request.OrderID, status); err != nil {
			logger.Warnw("order_enqueue_status_email_failed",
				"order_id", request.OrderID,
				"status", status,
				"error", err,
			)
		}
	}
	return request, nil
}

// ListRefundRequests 管理端退款申请列表
func (s *RefundService) ListRefundRequests(filter repository.DecisionListFilter) ([]models.RefundRequest, int64, error) {
	rows, total, err := s.refundRepo.List(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return rows, total, nil
}
