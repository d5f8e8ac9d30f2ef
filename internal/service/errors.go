package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
	ErrOrderStatusInvalid = errors.New("order status invalid")
	ErrInvalidOrderItem   = errors.New("invalid order item")
	ErrTrackingNotAllowed = errors.New("tracking number not allowed in current status")
	ErrDeleteNotAllowed   = errors.New("order delete not allowed in current status")
)

// 取消申请相关错误
var (
	ErrCancellationNotFound = errors.New("cancellation request not found")
	ErrCancelNotAllowed     = errors.New("cancellation not allowed in current status")
	ErrCancellationPending  = errors.New("cancellation request already pending")
	ErrCancellationDecided  = errors.New("cancellation request already decided")
)

// 退款申请相关错误
var (
	ErrRefundNotFound      = errors.New("refund request not found")
	ErrRefundNotAllowed    = errors.New("refund not allowed in current status")
	ErrRefundPending       = errors.New("refund request already pending")
	ErrRefundDecided       = errors.New("refund request already decided")
	ErrRefundPhotoRequired = errors.New("refund photo evidence required")
)

// 结算相关错误
var (
	ErrSettlementLocked        = errors.New("settlement locked")
	ErrSettlementNotFound      = errors.New("settlement record not found")
	ErrSettlementSaveFailed    = errors.New("settlement save failed")
	ErrSettlementAmountInvalid = errors.New("settlement amount invalid")
)

// 邮件相关错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 认证相关错误
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet policy")
)
