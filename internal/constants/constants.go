package constants

// 订单规范状态常量
const (
	OrderStatusPending         = "pending"
	OrderStatusProcessing      = "processing"
	OrderStatusShipped         = "shipped"
	OrderStatusDelivered       = "delivered"
	OrderStatusCompleted       = "completed"
	OrderStatusCancelled       = "cancelled"
	OrderStatusInRefundProcess = "in_refund_process"
)

// 订单展示状态常量
const (
	DisplayStatusUnpaid              = "unpaid"
	DisplayStatusProcessing          = "being processed"
	DisplayStatusShipped             = "shipped"
	DisplayStatusArrived             = "arrived"
	DisplayStatusCompleted           = "completed"
	DisplayStatusCancelledByAdmin    = "cancelled by admin"
	DisplayStatusCancelled           = "cancelled"
	DisplayStatusAwaitingDecision    = "awaiting admin decision"
	DisplayStatusCancellationGranted = "cancellation approved"
	DisplayStatusInRefundProcess     = "in refund process"
)

// 退款展示状态常量
const (
	RefundDisplayRequested = "refund requested"
	RefundDisplayApproved  = "refund approved"
	RefundDisplayRejected  = "refund rejected"
)

// 取消申请发起方常量
const (
	CancelInitiatorBuyer  = "buyer"
	CancelInitiatorSeller = "seller"
)

// 审批决定常量
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "hm"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleZhCN, LocaleEnUS}
