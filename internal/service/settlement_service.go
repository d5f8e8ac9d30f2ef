package service

import (
	"context"
	"errors"

	"github.com/homemart-shop/internal/cache"
	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/logger"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementService 买家分组结算服务
type SettlementService struct {
	orderRepo      repository.OrderRepository
	settlementRepo repository.SettlementRepository
}

// NewSettlementService 创建结算服务
func NewSettlementService(orderRepo repository.OrderRepository, settlementRepo repository.SettlementRepository) *SettlementService {
	return &SettlementService{
		orderRepo:      orderRepo,
		settlementRepo: settlementRepo,
	}
}

// ComputeSettlement 结算金额计算。
// 商品金额默认为订单项小计之和；传入覆盖值时按原值采用。应付总额 = 商品金额 + 运费。
func ComputeSettlement(items []models.OrderItem, productOverride *models.Money, shippingFee models.Money) (productTotal, totalPayable models.Money) {
	if productOverride != nil {
		productTotal = models.NewMoneyFromDecimal(productOverride.Decimal)
	} else {
		productTotal = models.NewMoneyFromDecimal(sumLineItems(items))
	}
	totalPayable = models.NewMoneyFromDecimal(productTotal.Decimal.Add(shippingFee.Decimal))
	return productTotal, totalPayable
}

func sumLineItems(items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2))
	}
	return sum
}

func sumGroupLineItems(orders []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for i := range orders {
		sum = sum.Add(sumLineItems(orders[i].Items))
	}
	return sum
}

// groupShipmentLocked 分组内任一订单发货及以后状态即触发锁定
func groupShipmentLocked(orders []models.Order) bool {
	for i := range orders {
		switch orders[i].Status {
		case constants.OrderStatusShipped,
			constants.OrderStatusDelivered,
			constants.OrderStatusCompleted:
			return true
		}
	}
	return false
}

// settlementLocked 单向锁判定：运费已大于 0，或分组内已有订单进入发货链路
func settlementLocked(record *models.SettlementRecord, orders []models.Order) bool {
	if record != nil && (record.Locked || record.ShippingFee.IsPositive()) {
		return true
	}
	return groupShipmentLocked(orders)
}

// GetSettlement 按买家分组读取结算记录。
// 优先读缓存；无持久化记录时按分组订单项之和现算（不落库）。
func (s *SettlementService) GetSettlement(ctx context.Context, buyerName, buyerPhone string) (*models.SettlementRecord, error) {
	if cached, hit, err := cache.GetSettlement(ctx, buyerName, buyerPhone); err == nil && hit {
		return cached, nil
	}

	record, err := s.settlementRepo.GetByBuyer(buyerName, buyerPhone)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if record != nil {
		if err := cache.SetSettlement(ctx, record); err != nil {
			logger.Warnw("settlement_cache_fill_failed", "buyer_name", buyerName, "error", err)
		}
		return record, nil
	}

	orders, err := s.orderRepo.ListByBuyerGroup(buyerName, buyerPhone)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if len(orders) == 0 {
		return nil, ErrSettlementNotFound
	}
	productTotal := models.NewMoneyFromDecimal(sumGroupLineItems(orders))
	return &models.SettlementRecord{
		BuyerName:    buyerName,
		BuyerPhone:   buyerPhone,
		ProductTotal: productTotal,
		ShippingFee:  models.Money{},
		TotalPayable: productTotal,
		Locked:       groupShipmentLocked(orders),
	}, nil
}

// GetSettlementForOrder 订单维度的结算视图：订单已有服务端结算金额时优先返回
func (s *SettlementService) GetSettlementForOrder(ctx context.Context, orderID uint, userID uint) (*models.SettlementRecord, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.ServerTotal.IsPositive() {
		return &models.SettlementRecord{
			BuyerName:    order.BuyerName,
			BuyerPhone:   order.BuyerPhone,
			ProductTotal: order.ProductTotal,
			ShippingFee:  order.ShippingFee,
			TotalPayable: order.ServerTotal,
			Locked:       order.SettlementLocked,
		}, nil
	}
	return s.GetSettlement(ctx, order.BuyerName, order.BuyerPhone)
}

// SetSettlementInput 管理端结算写入输入
type SetSettlementInput struct {
	OrderID      uint
	ProductTotal *models.Money
	ShippingFee  *models.Money
}

// SetSettlement 管理端写入买家分组结算。
// 锁定后的记录保持原值，任何写入均以 ErrSettlementLocked 拒绝。
func (s *SettlementService) SetSettlement(ctx context.Context, input SetSettlementInput) (*models.SettlementRecord, error) {
	if input.ProductTotal != nil && input.ProductTotal.IsNegative() {
		return nil, ErrSettlementAmountInvalid
	}
	if input.ShippingFee != nil && input.ShippingFee.IsNegative() {
		return nil, ErrSettlementAmountInvalid
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	var result *models.SettlementRecord
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		settlementRepo := s.settlementRepo.WithTx(tx)

		orders, err := orderRepo.ListByBuyerGroup(order.BuyerName, order.BuyerPhone)
		if err != nil {
			return err
		}
		record, err := settlementRepo.GetByBuyer(order.BuyerName, order.BuyerPhone)
		if err != nil {
			return err
		}
		if settlementLocked(record, orders) {
			return ErrSettlementLocked
		}

		shippingFee := models.Money{}
		if input.ShippingFee != nil {
			shippingFee = *input.ShippingFee
		} else if record != nil {
			shippingFee = record.ShippingFee
		}

		var override *models.Money
		if input.ProductTotal != nil {
			override = input.ProductTotal
		}
		groupItems := make([]models.OrderItem, 0)
		for i := range orders {
			groupItems = append(groupItems, orders[i].Items...)
		}
		productTotal, totalPayable := ComputeSettlement(groupItems, override, shippingFee)
		locked := shippingFee.IsPositive()

		if record == nil {
			record = &models.SettlementRecord{
				BuyerName:    order.BuyerName,
				BuyerPhone:   order.BuyerPhone,
				ProductTotal: productTotal,
				ShippingFee:  shippingFee,
				TotalPayable: totalPayable,
				Locked:       locked,
			}
			if err := settlementRepo.Create(record); err != nil {
				return err
			}
		} else {
			rows, err := settlementRepo.UpdateUnlocked(record.ID, map[string]interface{}{
				"product_total": productTotal,
				"shipping_fee":  shippingFee,
				"total_payable": totalPayable,
				"locked":        locked,
			})
			if err != nil {
				return err
			}
			if rows == 0 {
				// 并发写入已触发锁定
				return ErrSettlementLocked
			}
			record.ProductTotal = productTotal
			record.ShippingFee = shippingFee
			record.TotalPayable = totalPayable
			record.Locked = locked
		}

		// 镜像到触发订单，供买家订单详情直接展示
		if err := orderRepo.Update(order.ID, map[string]interface{}{
			"product_total":     productTotal,
			"shipping_fee":      shippingFee,
			"server_total":      totalPayable,
			"settlement_locked": locked,
		}); err != nil {
			return err
		}

		result = record
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSettlementLocked) {
			return nil, ErrSettlementLocked
		}
		logger.Errorw("settlement_save_failed", "order_id", order.ID, "error", err)
		return nil, ErrSettlementSaveFailed
	}

	if err := cache.DelSettlement(ctx, order.BuyerName, order.BuyerPhone); err != nil {
		logger.Warnw("settlement_cache_invalidate_failed", "buyer_name", order.BuyerName, "error", err)
	}
	return result, nil
}

// ListSettlements 管理端结算记录列表
func (s *SettlementService) ListSettlements(page, pageSize int) ([]models.SettlementRecord, int64, error) {
	rows, total, err := s.settlementRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return rows, total, nil
}
