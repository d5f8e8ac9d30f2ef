package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Cancellation{},
		&models.RefundRequest{},
		&models.SettlementRecord{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func newOrderServiceForTest(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewCancellationRepository(db),
		repository.NewRefundRepository(db),
		nil,
	)
}

func createTestOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:      fmt.Sprintf("HMTEST%d", time.Now().UnixNano()),
		UserID:       1,
		BuyerName:    "测试买家",
		BuyerPhone:   "13800000000",
		BuyerAddress: "测试地址",
		Status:       status,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestCreateOrderComputesTotals(t *testing.T) {
	db := newTestDB(t, "order_create")
	svc := newOrderServiceForTest(db)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:       7,
		BuyerName:    " 王小明 ",
		BuyerPhone:   "13800001111",
		BuyerAddress: "上海市某路 1 号",
		Items: []CreateOrderItem{
			{ProductID: 1, Name: "保温杯", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)), Quantity: 2},
			{ProductID: 2, Name: "毛巾", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(9.50)), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.BuyerName != "王小明" {
		t.Fatalf("expected trimmed buyer name, got %q", order.BuyerName)
	}
	if !strings.HasPrefix(order.OrderNo, "HM") {
		t.Fatalf("unexpected order no: %s", order.OrderNo)
	}
	if !order.ProductTotal.Decimal.Equal(decimal.NewFromFloat(89.30)) {
		t.Fatalf("expected product total 89.30, got %s", order.ProductTotal)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if !order.Items[0].TotalPrice.Decimal.Equal(decimal.NewFromFloat(79.80)) {
		t.Fatalf("expected line total 79.80, got %s", order.Items[0].TotalPrice)
	}
}

func TestCreateOrderRejectsInvalidItems(t *testing.T) {
	db := newTestDB(t, "order_create_invalid")
	svc := newOrderServiceForTest(db)

	cases := []CreateOrderInput{
		{UserID: 1, BuyerName: "a", BuyerPhone: "b", BuyerAddress: "c"},
		{UserID: 0, BuyerName: "a", BuyerPhone: "b", BuyerAddress: "c", Items: []CreateOrderItem{{Name: "x", Quantity: 1}}},
		{UserID: 1, BuyerName: "", BuyerPhone: "b", BuyerAddress: "c", Items: []CreateOrderItem{{Name: "x", Quantity: 1}}},
		{UserID: 1, BuyerName: "a", BuyerPhone: "b", BuyerAddress: "c", Items: []CreateOrderItem{{Name: "", Quantity: 1}}},
		{UserID: 1, BuyerName: "a", BuyerPhone: "b", BuyerAddress: "c", Items: []CreateOrderItem{{Name: "x", Quantity: 0}}},
		{UserID: 1, BuyerName: "a", BuyerPhone: "b", BuyerAddress: "c", Items: []CreateOrderItem{
			{Name: "x", Quantity: 1, UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(-1))},
		}},
	}
	for i, input := range cases {
		if _, err := svc.CreateOrder(input); !errors.Is(err, ErrInvalidOrderItem) {
			t.Fatalf("case %d: expected ErrInvalidOrderItem, got %v", i, err)
		}
	}
}

func TestAdvanceStatusForwardOnly(t *testing.T) {
	db := newTestDB(t, "order_advance")
	svc := newOrderServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)

	updated, err := svc.AdvanceStatus(order.ID, constants.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("AdvanceStatus error: %v", err)
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}

	// 跳级推进被拒绝
	if _, err := svc.AdvanceStatus(order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for skip, got %v", err)
	}
	// 回退被拒绝
	if _, err := svc.AdvanceStatus(order.ID, constants.OrderStatusPending); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for backward, got %v", err)
	}
	// 非法状态字面量被拒绝
	if _, err := svc.AdvanceStatus(order.ID, "unknown"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for unknown, got %v", err)
	}
}

func TestAdvanceStatusSameStatusNoop(t *testing.T) {
	db := newTestDB(t, "order_advance_noop")
	svc := newOrderServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusShipped)
	got, err := svc.AdvanceStatus(order.ID, constants.OrderStatusShipped)
	if err != nil {
		t.Fatalf("AdvanceStatus error: %v", err)
	}
	if got.Status != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", got.Status)
	}
	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Version != order.Version {
		t.Fatalf("expected version unchanged, got %d", stored.Version)
	}
}

func TestAdvanceStatusCancelledIsTerminal(t *testing.T) {
	db := newTestDB(t, "order_advance_cancelled")
	svc := newOrderServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusCancelled)
	if _, err := svc.AdvanceStatus(order.ID, constants.OrderStatusProcessing); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for cancelled order, got %v", err)
	}
}

func TestAdvanceStatusNotFound(t *testing.T) {
	db := newTestDB(t, "order_advance_missing")
	svc := newOrderServiceForTest(db)
	if _, err := svc.AdvanceStatus(9999, constants.OrderStatusProcessing); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestSetTrackingNumberStatusGate(t *testing.T) {
	db := newTestDB(t, "order_tracking")
	svc := newOrderServiceForTest(db)

	processing := createTestOrder(t, db, constants.OrderStatusProcessing)
	updated, err := svc.SetTrackingNumber(processing.ID, " SF123456 ")
	if err != nil {
		t.Fatalf("SetTrackingNumber error: %v", err)
	}
	if updated.TrackingNo != "SF123456" {
		t.Fatalf("expected trimmed tracking no, got %q", updated.TrackingNo)
	}

	pending := createTestOrder(t, db, constants.OrderStatusPending)
	if _, err := svc.SetTrackingNumber(pending.ID, "SF654321"); !errors.Is(err, ErrTrackingNotAllowed) {
		t.Fatalf("expected ErrTrackingNotAllowed for pending, got %v", err)
	}

	delivered := createTestOrder(t, db, constants.OrderStatusDelivered)
	if _, err := svc.SetTrackingNumber(delivered.ID, "SF000001"); !errors.Is(err, ErrTrackingNotAllowed) {
		t.Fatalf("expected ErrTrackingNotAllowed for delivered, got %v", err)
	}

	if _, err := svc.SetTrackingNumber(processing.ID, "   "); !errors.Is(err, ErrTrackingNotAllowed) {
		t.Fatalf("expected ErrTrackingNotAllowed for blank tracking no, got %v", err)
	}
}

func TestDeleteOrderStatusGate(t *testing.T) {
	db := newTestDB(t, "order_delete")
	svc := newOrderServiceForTest(db)

	active := createTestOrder(t, db, constants.OrderStatusShipped)
	if err := svc.DeleteOrder(active.ID); !errors.Is(err, ErrDeleteNotAllowed) {
		t.Fatalf("expected ErrDeleteNotAllowed, got %v", err)
	}

	done := createTestOrder(t, db, constants.OrderStatusCompleted)
	if err := db.Create(&models.OrderItem{OrderID: done.ID, ProductID: 1, Name: "x", Quantity: 1}).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if err := svc.DeleteOrder(done.ID); err != nil {
		t.Fatalf("DeleteOrder error: %v", err)
	}

	var count int64
	if err := db.Unscoped().Model(&models.Order{}).Where("id = ?", done.ID).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected hard delete, found %d rows", count)
	}
	if err := db.Unscoped().Model(&models.OrderItem{}).Where("order_id = ?", done.ID).Count(&count).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected items removed, found %d rows", count)
	}
}
