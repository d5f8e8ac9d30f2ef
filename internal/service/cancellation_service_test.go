package service

import (
	"errors"
	"testing"
	"time"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/models"
	"github.com/homemart-shop/internal/repository"

	"gorm.io/gorm"
)

func newCancellationServiceForTest(db *gorm.DB) *CancellationService {
	return NewCancellationService(
		repository.NewOrderRepository(db),
		repository.NewCancellationRepository(db),
		nil,
	)
}

func TestRequestCancellationOnlyUnpaid(t *testing.T) {
	db := newTestDB(t, "cancel_request")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	request, err := svc.RequestCancellation(order.ID, order.UserID, "  不想要了  ")
	if err != nil {
		t.Fatalf("RequestCancellation error: %v", err)
	}
	if request.Initiator != constants.CancelInitiatorBuyer {
		t.Fatalf("expected buyer initiator, got %s", request.Initiator)
	}
	if request.Reason != "不想要了" {
		t.Fatalf("expected trimmed reason, got %q", request.Reason)
	}
	if request.Decision != nil {
		t.Fatalf("expected pending decision, got %v", *request.Decision)
	}

	paid := createTestOrder(t, db, constants.OrderStatusProcessing)
	if _, err := svc.RequestCancellation(paid.ID, paid.UserID, "晚了"); !errors.Is(err, ErrCancelNotAllowed) {
		t.Fatalf("expected ErrCancelNotAllowed after payment, got %v", err)
	}
}

func TestRequestCancellationRejectsDuplicatePending(t *testing.T) {
	db := newTestDB(t, "cancel_request_dup")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	if _, err := svc.RequestCancellation(order.ID, order.UserID, "first"); err != nil {
		t.Fatalf("first request error: %v", err)
	}
	if _, err := svc.RequestCancellation(order.ID, order.UserID, "second"); !errors.Is(err, ErrCancellationPending) {
		t.Fatalf("expected ErrCancellationPending, got %v", err)
	}
}

func TestRequestCancellationWrongUser(t *testing.T) {
	db := newTestDB(t, "cancel_request_user")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	if _, err := svc.RequestCancellation(order.ID, order.UserID+1, "not mine"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}
}

func TestDecideCancellationApprove(t *testing.T) {
	db := newTestDB(t, "cancel_decide_approve")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	request, err := svc.RequestCancellation(order.ID, order.UserID, "reason")
	if err != nil {
		t.Fatalf("RequestCancellation error: %v", err)
	}

	decided, err := svc.DecideCancellation(request.ID, true)
	if err != nil {
		t.Fatalf("DecideCancellation error: %v", err)
	}
	if decided.Decision == nil || *decided.Decision != constants.DecisionApproved {
		t.Fatalf("expected approved decision, got %v", decided.Decision)
	}
	if decided.DecidedAt == nil {
		t.Fatalf("expected decided_at set")
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", stored.Status)
	}
}

func TestDecideCancellationRejectKeepsOrder(t *testing.T) {
	db := newTestDB(t, "cancel_decide_reject")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	request, err := svc.RequestCancellation(order.ID, order.UserID, "reason")
	if err != nil {
		t.Fatalf("RequestCancellation error: %v", err)
	}

	decided, err := svc.DecideCancellation(request.ID, false)
	if err != nil {
		t.Fatalf("DecideCancellation error: %v", err)
	}
	if decided.Decision == nil || *decided.Decision != constants.DecisionRejected {
		t.Fatalf("expected rejected decision, got %v", decided.Decision)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order after reject, got %s", stored.Status)
	}
}

func TestDecideCancellationOneShot(t *testing.T) {
	db := newTestDB(t, "cancel_decide_oneshot")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	request, err := svc.RequestCancellation(order.ID, order.UserID, "reason")
	if err != nil {
		t.Fatalf("RequestCancellation error: %v", err)
	}
	if _, err := svc.DecideCancellation(request.ID, false); err != nil {
		t.Fatalf("first decide error: %v", err)
	}
	if _, err := svc.DecideCancellation(request.ID, true); !errors.Is(err, ErrCancellationDecided) {
		t.Fatalf("expected ErrCancellationDecided, got %v", err)
	}

	// 驳回结果保持不变
	var stored models.Cancellation
	if err := db.First(&stored, request.ID).Error; err != nil {
		t.Fatalf("reload request failed: %v", err)
	}
	if stored.Decision == nil || *stored.Decision != constants.DecisionRejected {
		t.Fatalf("expected rejected to persist, got %v", stored.Decision)
	}
}

func TestDecideCancellationNotFound(t *testing.T) {
	db := newTestDB(t, "cancel_decide_missing")
	svc := newCancellationServiceForTest(db)
	if _, err := svc.DecideCancellation(4242, true); !errors.Is(err, ErrCancellationNotFound) {
		t.Fatalf("expected ErrCancellationNotFound, got %v", err)
	}
}

func TestAdminCancelOrder(t *testing.T) {
	db := newTestDB(t, "cancel_admin")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusProcessing)
	cancelled, err := svc.AdminCancelOrder(order.ID, "缺货")
	if err != nil {
		t.Fatalf("AdminCancelOrder error: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	var record models.Cancellation
	if err := db.Where("order_id = ?", order.ID).First(&record).Error; err != nil {
		t.Fatalf("load cancellation failed: %v", err)
	}
	if record.Initiator != constants.CancelInitiatorSeller {
		t.Fatalf("expected seller initiator, got %s", record.Initiator)
	}
	if record.Decision == nil || *record.Decision != constants.DecisionApproved {
		t.Fatalf("expected approved seller cancel, got %v", record.Decision)
	}
	if record.DecidedAt == nil {
		t.Fatalf("expected decided_at set for seller cancel")
	}

	// 已取消的订单不允许重复取消
	if _, err := svc.AdminCancelOrder(order.ID, "again"); !errors.Is(err, ErrCancelNotAllowed) {
		t.Fatalf("expected ErrCancelNotAllowed for cancelled order, got %v", err)
	}
}

func TestAdminCancelOrderDecidedAtRecent(t *testing.T) {
	db := newTestDB(t, "cancel_admin_time")
	svc := newCancellationServiceForTest(db)

	order := createTestOrder(t, db, constants.OrderStatusPending)
	before := time.Now().Add(-time.Minute)
	if _, err := svc.AdminCancelOrder(order.ID, ""); err != nil {
		t.Fatalf("AdminCancelOrder error: %v", err)
	}
	var record models.Cancellation
	if err := db.Where("order_id = ?", order.ID).First(&record).Error; err != nil {
		t.Fatalf("load cancellation failed: %v", err)
	}
	if record.DecidedAt == nil || record.DecidedAt.Before(before) {
		t.Fatalf("unexpected decided_at: %v", record.DecidedAt)
	}
}
