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

// CancellationService 订单取消流程服务
type CancellationService struct {
	orderRepo        repository.OrderRepository
	cancellationRepo repository.CancellationRepository
	queueClient      *queue.Client
}

// NewCancellationService 创建取消流程服务
func NewCancellationService(orderRepo repository.OrderRepository, cancellationRepo repository.CancellationRepository, queueClient *queue.Client) *CancellationService {
	return &CancellationService{
		orderRepo:        orderRepo,
		cancellationRepo: cancellationRepo,
		queueClient:      queueClient,
	}
}

// RequestCancellation 买家发起取消申请（仅未付款展示状态下允许）
func (s *CancellationService) RequestCancellation(orderID uint, userID uint, reason string) (*models.Cancellation, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	resolved := ResolveOrderStatus(order, order.Cancellations, order.RefundRequests)
	if resolved.DisplayStatus == constants.DisplayStatusAwaitingDecision {
		return nil, ErrCancellationPending
	}
	if resolved.DisplayStatus != constants.DisplayStatusUnpaid {
		return nil, ErrCancelNotAllowed
	}

	request := &models.Cancellation{
		OrderID:   order.ID,
		Initiator: constants.CancelInitiatorBuyer,
		Reason:    strings.TrimSpace(reason),
	}
	if err := s.cancellationRepo.Create(request); err != nil {
		logger.Errorw("cancellation_request_create_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	return request, nil
}

// AdminCancelOrder 管理端代卖家取消订单（同步生效）
func (s *CancellationService) AdminCancelOrder(orderID uint, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrCancelNotAllowed
	}
	resolved := ResolveOrderStatus(order, order.Cancellations, order.RefundRequests)
	if resolved.DisplayStatus == constants.DisplayStatusCancelledByAdmin ||
		resolved.DisplayStatus == constants.DisplayStatusCancellationGranted {
		return nil, ErrCancelNotAllowed
	}

	now := time.Now()
	decision := constants.DecisionApproved
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cancellationRepo := s.cancellationRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		record := &models.Cancellation{
			OrderID:   order.ID,
			Initiator: constants.CancelInitiatorSeller,
			Reason:    strings.TrimSpace(reason),
			Decision:  &decision,
			DecidedAt: &now,
		}
		if err := cancellationRepo.Create(record); err != nil {
			return err
		}

		rows, err := orderRepo.UpdateGuarded(order.ID, order.Version, map[string]interface{}{
			"status":     constants.OrderStatusCancelled,
			"updated_at": now,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderUpdateFailed
		}
		return nil
	})
	if err != nil {
		logger.Errorw("admin_cancel_order_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	order.Status = constants.OrderStatusCancelled
	order.UpdatedAt = now
	order.Version++

	if s.queueClient != nil {
		if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, order.ID, constants.OrderStatusCancelled); err != nil {
			logger.Warnw("order_enqueue_status_email_failed",
				"order_id", order.ID,
				"status", constants.OrderStatusCancelled,
				"error", err,
			)
		}
	}
	return order, nil
}

// DecideCancellation 管理端审批买家取消申请（一次性，先到先得）
func (s *CancellationService) DecideCancellation(requestID uint, approve bool) (*models.Cancellation, error) {
	request, err := s.cancellationRepo.GetByID(requestID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if request == nil {
		return nil, ErrCancellationNotFound
	}
	if request.Decision != nil {
		return nil, ErrCancellationDecided
	}

	decision := constants.DecisionRejected
	if approve {
		decision = constants.DecisionApproved
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cancellationRepo := s.cancellationRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		rows, err := cancellationRepo.Decide(request.ID, decision, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// 并发审批，先到者已写入
			return ErrCancellationDecided
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
			"status":     constants.OrderStatusCancelled,
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
		if errors.Is(err, ErrCancellationDecided) {
			return nil, ErrCancellationDecided
		}
		logger.Errorw("cancellation_decide_failed", "request_id", request.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	request.Decision = &decision
	request.DecidedAt = &now

	if approve && s.queueClient != nil {
		if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, request.OrderID, constants.OrderStatusCancelled); err != nil {
			logger.Warnw("order_enqueue_status_email_failed",
				"order_id", request.OrderID,
				"status", constants.OrderStatusCancelled,
				"error", err,
			)
		}
	}
	return request, nil
}

// ListCancellations 管理端取消申请列表
func (s *CancellationService) ListCancellations(filter repository.DecisionListFilter) ([]models.Cancellation, int64, error) {
	rows, total, err := s.cancellationRepo.List(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return rows, total, nil
}
