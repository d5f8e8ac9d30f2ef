package service

import (
	"context"
	"errors"
	"testing"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newSettlementServiceForTest(db *gorm.DB) *SettlementService {
	return NewSettlementService(
		repository.NewOrderRepository(db),
		repository.NewSettlementRepository(db),
	)
}

func moneyPtr(amount float64) *models.Money {
	m := models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))
	return &m
}

func addTestItems(t *testing.T, db *gorm.DB, orderID uint, items ...models.OrderItem) {
	t.Helper()
	for i := range items {
		items[i].OrderID = orderID
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}
}

func TestComputeSettlementDefaultSum(t *testing.T) {
	items := []models.OrderItem{
		{UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)), Quantity: 2},
		{UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(9.50)), Quantity: 3},
	}
	productTotal, totalPayable := ComputeSettlement(items, nil, models.NewMoneyFromDecimal(decimal.NewFromFloat(12.00)))
	if !productTotal.Decimal.Equal(decimal.NewFromFloat(108.30)) {
		t.Fatalf("expected product total 108.30, got %s", productTotal)
	}
	if !totalPayable.Decimal.Equal(decimal.NewFromFloat(120.30)) {
		t.Fatalf("expected total payable 120.30, got %s", totalPayable)
	}
}

func TestComputeSettlementOverride(t *testing.T) {
	items := []models.OrderItem{
		{UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), Quantity: 1},
	}
	productTotal, totalPayable := ComputeSettlement(items, moneyPtr(80), models.NewMoneyFromDecimal(decimal.NewFromInt(10)))
	if !productTotal.Decimal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected override 80, got %s", productTotal)
	}
	if !totalPayable.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected total payable 90, got %s", totalPayable)
	}
}

func TestGetSettlementComputedFromGroup(t *testing.T) {
	db := newTestDB(t, "settlement_computed")
	svc := newSettlementServiceForTest(db)

	first := createTestOrder(t, db, constants.OrderStatusPending)
	addTestItems(t, db, first.ID, models.OrderItem{
		ProductID: 1, Name: "a", Quantity: 2,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
	})
	second := createTestOrder(t, db, constants.OrderStatusProcessing)
	addTestItems(t, db, second.ID, models.OrderItem{
		ProductID: 2, Name: "b", Quantity: 1,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
	})

	record, err := svc.GetSettlement(context.Background(), first.BuyerName, first.BuyerPhone)
	if err != nil {
		t.Fatalf("GetSettlement error: %v", err)
	}
	if !record.ProductTotal.Decimal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected product total 75, got %s", record.ProductTotal)
	}
	if !record.TotalPayable.Decimal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected total payable 75 before shipping, got %s", record.TotalPayable)
	}
	if record.Locked {
		t.Fatalf("expected unlocked settlement before shipment")
	}
}

func TestGetSettlementNotFound(t *testing.T) {
	db := newTestDB(t, "settlement_missing")
	svc := newSettlementServiceForTest(db)
	if _, err := svc.GetSettlement(context.Background(), "无此人", "10000000000"); !errors.Is(err, ErrSettlementNotFound) {
		t.Fatalf("expected ErrSettlementNotFound, got %v", err)
	}
}

func TestGetSettlementLockedByShippedOrder(t *testing.T) {
	db := newTestDB(t, "settlement_group_lock")
	svc := newSettlementServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusShipped)
	addTestItems(t, db, order.ID, models.OrderItem{
		ProductID: 1, Name: "a", Quantity: 1,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
	})

	record, err := svc.GetSettlement(context.Background(), order.BuyerName, order.BuyerPhone)
	if err != nil {
		t.Fatalf("GetSettlement error: %v", err)
	}
	if !record.Locked {
		t.Fatalf("expected settlement locked once an order shipped")
	}
}

func TestSetSettlementCreatesAndMirrorsOrder(t *testing.T) {
	db := newTestDB(t, "settlement_set")
	svc := newSettlementServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusProcessing)
	addTestItems(t, db, order.ID, models.OrderItem{
		ProductID: 1, Name: "a", Quantity: 2,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(40)),
	})

	record, err := svc.SetSettlement(context.Background(), SetSettlementInput{
		OrderID:     order.ID,
		ShippingFee: moneyPtr(10),
	})
	if err != nil {
		t.Fatalf("SetSettlement error: %v", err)
	}
	if !record.ProductTotal.Decimal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected product total 80, got %s", record.ProductTotal)
	}
	if !record.TotalPayable.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected total payable 90, got %s", record.TotalPayable)
	}
	// 运费大于 0 即触发单向锁
	if !record.Locked {
		t.Fatalf("expected locked after positive shipping fee")
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !stored.ServerTotal.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected mirrored server total 90, got %s", stored.ServerTotal)
	}
	if !stored.SettlementLocked {
		t.Fatalf("expected mirrored settlement lock on order")
	}
}

func TestSetSettlementLockedRejectsWriteUnchanged(t *testing.T) {
	db := newTestDB(t, "settlement_locked")
	svc := newSettlementServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusProcessing)
	addTestItems(t, db, order.ID, models.OrderItem{
		ProductID: 1, Name: "a", Quantity: 1,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
	})

	if _, err := svc.SetSettlement(context.Background(), SetSettlementInput{
		OrderID:     order.ID,
		ShippingFee: moneyPtr(20),
	}); err != nil {
		t.Fatalf("first SetSettlement error: %v", err)
	}

	var before models.SettlementRecord
	if err := db.Where("buyer_name = ? AND buyer_phone = ?", order.BuyerName, order.BuyerPhone).First(&before).Error; err != nil {
		t.Fatalf("load settlement failed: %v", err)
	}

	if _, err := svc.SetSettlement(context.Background(), SetSettlementInput{
		OrderID:      order.ID,
		ProductTotal: moneyPtr(1),
		ShippingFee:  moneyPtr(1),
	}); !errors.Is(err, ErrSettlementLocked) {
		t.Fatalf("expected ErrSettlementLocked, got %v", err)
	}

	var after models.SettlementRecord
	if err := db.Where("buyer_name = ? AND buyer_phone = ?", order.BuyerName, order.BuyerPhone).First(&after).Error; err != nil {
		t.Fatalf("reload settlement failed: %v", err)
	}
	if !after.ProductTotal.Decimal.Equal(before.ProductTotal.Decimal) ||
		!after.ShippingFee.Decimal.Equal(before.ShippingFee.Decimal) ||
		!after.TotalPayable.Decimal.Equal(before.TotalPayable.Decimal) ||
		after.Locked != before.Locked {
		t.Fatalf("locked settlement mutated: before=%+v after=%+v", before, after)
	}
}

func TestSetSettlementRejectsNegativeAmounts(t *testing.T) {
	db := newTestDB(t, "settlement_negative")
	svc := newSettlementServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusProcessing)
	if _, err := svc.SetSettlement(context.Background(), SetSettlementInput{
		OrderID:      order.ID,
		ProductTotal: moneyPtr(-5),
	}); !errors.Is(err, ErrSettlementAmountInvalid) {
		t.Fatalf("expected ErrSettlementAmountInvalid, got %v", err)
	}
	if _, err := svc.SetSettlement(context.Background(), SetSettlementInput{
		OrderID:     order.ID,
		ShippingFee: moneyPtr(-1),
	}); !errors.Is(err, ErrSettlementAmountInvalid) {
		t.Fatalf("expected ErrSettlementAmountInvalid for shipping, got %v", err)
	}
}

func TestSetSettlementRejectedAfterShipment(t *testing.T) {
	db := newTestDB(t, "settlement_shipped_lock")
	svc := newSettlementServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusShipped)
	if _, err := svc.SetSettlement(context.Background(), SetSettlementInput{
		OrderID:     order.ID,
		ShippingFee: moneyPtr(5),
	}); !errors.Is(err, ErrSettlementLocked) {
		t.Fatalf("expected ErrSettlementLocked after shipment, got %v", err)
	}
}

func TestGetSettlementForOrderPrefersServerTotal(t *testing.T) {
	db := newTestDB(t, "settlement_for_order")
	svc := newSettlementServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusProcessing)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"product_total":     models.NewMoneyFromDecimal(decimal.NewFromInt(60)),
		"shipping_fee":      models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
		"server_total":      models.NewMoneyFromDecimal(decimal.NewFromInt(68)),
		"settlement_locked": true,
	}).Error; err != nil {
		t.Fatalf("update order failed: %v", err)
	}

	record, err := svc.GetSettlementForOrder(context.Background(), order.ID, order.UserID)
	if err != nil {
		t.Fatalf("GetSettlementForOrder error: %v", err)
	}
	if !record.TotalPayable.Decimal.Equal(decimal.NewFromInt(68)) {
		t.Fatalf("expected total payable 68, got %s", record.TotalPayable)
	}
	if !record.Locked {
		t.Fatalf("expected locked flag mirrored")
	}

	if _, err := svc.GetSettlementForOrder(context.Background(), order.ID, order.UserID+1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}
}
