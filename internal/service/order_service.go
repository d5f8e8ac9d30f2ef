package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/logger"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/queue"
	"github.com/homemart-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	cancellationRepo repository.CancellationRepository
	refundRepo       repository.RefundRepository
	queueClient      *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cancellationRepo repository.CancellationRepository, refundRepo repository.RefundRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		cancellationRepo: cancellationRepo,
		refundRepo:       refundRepo,
		queueClient:      queueClient,
	}
}

// 规范状态推进表：只允许向前推进，取消与退款由各自流程负责
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusCompleted: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	targets, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return targets[target]
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID       uint
	BuyerName    string
	BuyerPhone   string
	BuyerAddress string
	Items        []CreateOrderItem
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID    uint
	Name         string
	VariantLabel string
	UnitPrice    models.Money
	Quantity     int
}

// CreateOrder 创建订单（买家信息在下单时固化为快照）
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	buyerName := strings.TrimSpace(input.BuyerName)
	buyerPhone := strings.TrimSpace(input.BuyerPhone)
	buyerAddress := strings.TrimSpace(input.BuyerAddress)
	if input.UserID == 0 || buyerName == "" || buyerPhone == "" || buyerAddress == "" {
		return nil, ErrInvalidOrderItem
	}
	if len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	productTotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		name := strings.TrimSpace(in.Name)
		if name == "" || in.Quantity <= 0 || in.UnitPrice.IsNegative() {
			return nil, ErrInvalidOrderItem
		}
		lineTotal := in.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)
		productTotal = productTotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:    in.ProductID,
			Name:         name,
			VariantLabel: strings.TrimSpace(in.VariantLabel),
			UnitPrice:    in.UnitPrice,
			Quantity:     in.Quantity,
			TotalPrice:   models.NewMoneyFromDecimal(lineTotal),
		})
	}

	order := &models.Order{
		OrderNo:      generateOrderNo(),
		UserID:       input.UserID,
		BuyerName:    buyerName,
		BuyerPhone:   buyerPhone,
		BuyerAddress: buyerAddress,
		Status:       constants.OrderStatusPending,
		ProductTotal: models.NewMoneyFromDecimal(productTotal),
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		return orderRepo.Create(order, items)
	})
	if err != nil {
		logger.Errorw("order_create_failed", "user_id", input.UserID, "error", err)
		return nil, ErrOrderUpdateFailed
	}
	order.Items = items
	return order, nil
}

// AdvanceStatus 管理端推进订单规范状态
func (s *OrderService) AdvanceStatus(orderID uint, targetStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := normalizeStatus(targetStatus)
	if target == "" || !isCanonicalStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	// cancelled 为终态，任何推进都被拒绝
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	rows, err := s.orderRepo.UpdateGuarded(order.ID, order.Version, map[string]interface{}{
		"status":     target,
		"updated_at": now,
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if rows == 0 {
		// 版本不匹配：状态已被并发修改
		return nil, ErrOrderStatusInvalid
	}
	order.Status = target
	order.UpdatedAt = now
	order.Version++

	if s.queueClient != nil {
		if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, order.ID, target); err != nil {
			logger.Warnw("order_enqueue_status_email_failed",
				"order_id", order.ID,
				"status", target,
				"error", err,
			)
		}
	}
	return order, nil
}

// SetTrackingNumber 设置物流单号（仅 processing/shipped 状态允许）
func (s *OrderService) SetTrackingNumber(orderID uint, trackingNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	trackingNo = strings.TrimSpace(trackingNo)
	if trackingNo == "" {
		return nil, ErrTrackingNotAllowed
	}
	if order.Status != constants.OrderStatusProcessing && order.Status != constants.OrderStatusShipped {
		return nil, ErrTrackingNotAllowed
	}

	now := time.Now()
	rows, err := s.orderRepo.UpdateGuarded(order.ID, order.Version, map[string]interface{}{
		"tracking_no": trackingNo,
		"updated_at":  now,
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if rows == 0 {
		return nil, ErrOrderUpdateFailed
	}
	order.TrackingNo = trackingNo
	order.UpdatedAt = now
	order.Version++
	return order, nil
}

// DeleteOrder 物理删除订单（仅 completed/cancelled 状态允许）
func (s *OrderService) DeleteOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return ErrOrderFetchFailed
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusCompleted && order.Status != constants.OrderStatusCancelled {
		return ErrDeleteNotAllowed
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		return orderRepo.HardDelete(order.ID)
	})
	if err != nil {
		logger.Errorw("order_hard_delete_failed", "order_id", order.ID, "error", err)
		return ErrOrderUpdateFailed
	}
	return nil
}

// generateOrderNo 生成订单编号
func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("HM%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
