package service

import (
	"testing"
	"time"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func TestResolveOrderStatusCanonicalLabels(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{constants.OrderStatusPending, constants.DisplayStatusUnpaid},
		{constants.OrderStatusProcessing, constants.DisplayStatusProcessing},
		{constants.OrderStatusShipped, constants.DisplayStatusShipped},
		{constants.OrderStatusDelivered, constants.DisplayStatusArrived},
		{constants.OrderStatusCompleted, constants.DisplayStatusCompleted},
		{constants.OrderStatusCancelled, constants.DisplayStatusCancelledByAdmin},
		{constants.OrderStatusInRefundProcess, constants.DisplayStatusInRefundProcess},
	}
	for _, tc := range cases {
		got := ResolveOrderStatus(&models.Order{Status: tc.status}, nil, nil)
		if got.DisplayStatus != tc.want {
			t.Fatalf("status %s: expected %q, got %q", tc.status, tc.want, got.DisplayStatus)
		}
		if got.RefundStatus != "" {
			t.Fatalf("status %s: expected empty refund status, got %q", tc.status, got.RefundStatus)
		}
	}
}

func TestResolveOrderStatusBuyerPendingWins(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusPending}
	cancellations := []models.Cancellation{
		{Initiator: constants.CancelInitiatorBuyer, Decision: nil},
	}
	got := ResolveOrderStatus(order, cancellations, nil)
	if got.DisplayStatus != constants.DisplayStatusAwaitingDecision {
		t.Fatalf("expected awaiting decision, got %q", got.DisplayStatus)
	}
}

func TestResolveOrderStatusBuyerApproved(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusCancelled}
	cancellations := []models.Cancellation{
		{Initiator: constants.CancelInitiatorBuyer, Decision: strPtr(constants.DecisionApproved)},
	}
	got := ResolveOrderStatus(order, cancellations, nil)
	if got.DisplayStatus != constants.DisplayStatusCancellationGranted {
		t.Fatalf("expected cancellation approved, got %q", got.DisplayStatus)
	}
}

func TestResolveOrderStatusBuyerRejectedFallsThrough(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusProcessing}
	cancellations := []models.Cancellation{
		{Initiator: constants.CancelInitiatorBuyer, Decision: strPtr(constants.DecisionRejected)},
	}
	got := ResolveOrderStatus(order, cancellations, nil)
	if got.DisplayStatus != constants.DisplayStatusProcessing {
		t.Fatalf("expected being processed, got %q", got.DisplayStatus)
	}
}

func TestResolveOrderStatusSellerCancel(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusCancelled}
	cancellations := []models.Cancellation{
		{Initiator: constants.CancelInitiatorSeller, Decision: strPtr(constants.DecisionApproved)},
	}
	got := ResolveOrderStatus(order, cancellations, nil)
	if got.DisplayStatus != constants.DisplayStatusCancelledByAdmin {
		t.Fatalf("expected cancelled by admin, got %q", got.DisplayStatus)
	}
}

func TestResolveOrderStatusBuyerPendingBeatsSellerCancel(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusPending}
	cancellations := []models.Cancellation{
		{Initiator: constants.CancelInitiatorSeller, Decision: strPtr(constants.DecisionApproved)},
		{Initiator: constants.CancelInitiatorBuyer, Decision: nil},
	}
	got := ResolveOrderStatus(order, cancellations, nil)
	if got.DisplayStatus != constants.DisplayStatusAwaitingDecision {
		t.Fatalf("expected awaiting decision, got %q", got.DisplayStatus)
	}
}

func TestResolveOrderStatusRefundApproved(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusDelivered}
	refunds := []models.RefundRequest{
		{ID: 1, RequestedAt: time.Now(), Decision: strPtr(constants.DecisionApproved)},
	}
	got := ResolveOrderStatus(order, nil, refunds)
	if got.DisplayStatus != constants.DisplayStatusInRefundProcess {
		t.Fatalf("expected in refund process, got %q", got.DisplayStatus)
	}
	if got.RefundStatus != constants.RefundDisplayApproved {
		t.Fatalf("expected refund approved, got %q", got.RefundStatus)
	}
}

func TestResolveOrderStatusRefundRejectedShowsCompleted(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusDelivered}
	refunds := []models.RefundRequest{
		{ID: 1, RequestedAt: time.Now(), Decision: strPtr(constants.DecisionRejected)},
	}
	got := ResolveOrderStatus(order, nil, refunds)
	if got.DisplayStatus != constants.DisplayStatusCompleted {
		t.Fatalf("expected completed, got %q", got.DisplayStatus)
	}
	if got.RefundStatus != constants.RefundDisplayRejected {
		t.Fatalf("expected refund rejected, got %q", got.RefundStatus)
	}
}

func TestResolveOrderStatusRefundPendingKeepsCanonicalLabel(t *testing.T) {
	order := &models.Order{Status: constants.OrderStatusDelivered}
	refunds := []models.RefundRequest{
		{ID: 1, RequestedAt: time.Now(), Decision: nil},
	}
	got := ResolveOrderStatus(order, nil, refunds)
	if got.DisplayStatus != constants.DisplayStatusArrived {
		t.Fatalf("expected arrived, got %q", got.DisplayStatus)
	}
	if got.RefundStatus != constants.RefundDisplayRequested {
		t.Fatalf("expected refund requested, got %q", got.RefundStatus)
	}
}

func TestLatestRefundRequestTieBreakByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	refunds := []models.RefundRequest{
		{ID: 1, RequestedAt: at, Decision: strPtr(constants.DecisionRejected)},
		{ID: 3, RequestedAt: at, Decision: nil},
		{ID: 2, RequestedAt: at, Decision: strPtr(constants.DecisionApproved)},
	}
	latest := latestRefundRequest(refunds)
	if latest == nil || latest.ID != 3 {
		t.Fatalf("expected latest refund id 3, got %+v", latest)
	}
	if got := resolveRefundDisplay(refunds); got != constants.RefundDisplayRequested {
		t.Fatalf("expected refund requested, got %q", got)
	}
}

func TestLatestRefundRequestByRequestedAt(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	refunds := []models.RefundRequest{
		{ID: 5, RequestedAt: base.Add(time.Hour), Decision: strPtr(constants.DecisionRejected)},
		{ID: 9, RequestedAt: base, Decision: strPtr(constants.DecisionApproved)},
	}
	latest := latestRefundRequest(refunds)
	if latest == nil || latest.ID != 5 {
		t.Fatalf("expected latest refund id 5, got %+v", latest)
	}
}

func TestResolveOrderStatusNilOrder(t *testing.T) {
	got := ResolveOrderStatus(nil, nil, []models.RefundRequest{
		{ID: 1, RequestedAt: time.Now(), Decision: nil},
	})
	if got.DisplayStatus != "" {
		t.Fatalf("expected empty display status for nil order, got %q", got.DisplayStatus)
	}
	if got.RefundStatus != constants.RefundDisplayRequested {
		t.Fatalf("expected refund requested, got %q", got.RefundStatus)
	}
}

func TestResolveOrderStatusUnknownStatusPassthrough(t *testing.T) {
	got := ResolveOrderStatus(&models.Order{Status: "archived"}, nil, nil)
	if got.DisplayStatus != "archived" {
		t.Fatalf("expected passthrough for unknown status, got %q", got.DisplayStatus)
	}
}
