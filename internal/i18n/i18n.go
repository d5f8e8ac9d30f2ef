package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleZH

// ResolveLocale 解析请求语言：query > header > 默认
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := normalize(c.Query("locale")); locale != "" {
		return locale
	}
	if locale := normalize(c.GetHeader("Accept-Language")); locale != "" {
		return locale
	}
	return DefaultLocale
}

func normalize(raw string) string {
	l := strings.ToLower(strings.TrimSpace(raw))
	if l == "" {
		return ""
	}
	// Accept-Language 可能携带权重列表，取首个
	if idx := strings.IndexAny(l, ",;"); idx >= 0 {
		l = l[:idx]
	}
	switch {
	case strings.HasPrefix(l, "zh"):
		return LocaleZH
	case strings.HasPrefix(l, "en"):
		return LocaleEN
	}
	return ""
}

// T 按语言查找文案，找不到时回退默认语言，仍找不到返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if locale != DefaultLocale {
		if msg, ok := messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 按语言格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if format == key {
		return key
	}
	return fmt.Sprintf(format, args...)
}

var messages = map[string]map[string]string{
	LocaleZH: {
		"error.invalid_request":           "请求参数错误",
		"error.unauthorized":              "未登录或登录已失效",
		"error.forbidden":                 "没有权限执行该操作",
		"error.rate_limited":              "操作过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":    "限流服务暂不可用，请稍后再试",
		"error.internal":                  "服务器内部错误",
		"error.jwt_secret_missing":        "服务端未配置签名密钥",
		"error.auth_header_missing":       "缺少认证信息",
		"error.auth_header_invalid":       "认证信息格式错误",
		"error.token_invalid":             "无效的 Token",
		"error.token_revoked":             "Token 已失效，请重新登录",
		"error.order_not_found":           "订单不存在",
		"error.order_fetch_failed":        "订单查询失败",
		"error.order_create_failed":       "订单创建失败",
		"error.order_update_failed":       "订单更新失败",
		"error.order_item_invalid":        "订单项不合法",
		"error.order_status_invalid":      "当前订单状态不允许该操作",
		"error.tracking_not_allowed":      "当前状态不允许填写物流单号",
		"error.delete_not_allowed":        "仅已完成或已取消的订单可删除",
		"error.cancel_not_allowed":        "当前状态不允许取消订单",
		"error.cancellation_pending":      "已有待审批的取消申请",
		"error.cancellation_decided":      "该取消申请已被处理",
		"error.cancellation_not_found":    "取消申请不存在",
		"error.refund_not_allowed":        "当前状态不允许申请退款",
		"error.refund_pending":            "已有待审批的退款申请",
		"error.refund_decided":            "该退款申请已被处理",
		"error.refund_not_found":          "退款申请不存在",
		"error.refund_photo_required":     "退款申请必须附带照片凭证",
		"error.settlement_locked":         "结算已锁定，无法修改",
		"error.settlement_not_found":      "结算记录不存在",
		"error.settlement_fetch_failed":   "结算查询失败",
		"error.settlement_save_failed":    "结算保存失败",
		"error.settlement_amount_invalid": "结算金额不合法",
		"error.user_id_invalid":           "用户标识不合法",
		"error.user_id_type_invalid":      "用户标识类型错误",
		"error.admin_id_invalid":          "管理员标识不合法",
		"error.admin_id_type_invalid":     "管理员标识类型错误",
		"error.invalid_credentials":       "账号或密码错误",
		"error.user_disabled":             "账号已被禁用",
		"error.email_taken":               "该邮箱已被注册",
		"error.weak_password":             "密码不符合安全要求",
		"error.password_min_length":       "密码长度至少 %d 位",
		"error.password_require_upper":    "密码必须包含大写字母",
		"error.password_require_lower":    "密码必须包含小写字母",
		"error.password_require_number":   "密码必须包含数字",
		"error.password_require_special":  "密码必须包含特殊字符",

		"order.status.pending":           "待付款",
		"order.status.processing":        "处理中",
		"order.status.shipped":           "已发货",
		"order.status.delivered":         "已送达",
		"order.status.completed":         "已完成",
		"order.status.cancelled":         "已取消",
		"order.status.in_refund_process": "退款处理中",

		"email.order_status.subject": "订单状态更新：%s",
		"email.order_status.body":    "您的订单 %s 状态已更新为「%s」。\n\n如有疑问请联系客服。",
	},
	LocaleEN: {
		"error.invalid_request":           "Invalid request",
		"error.unauthorized":              "Unauthorized or session expired",
		"error.forbidden":                 "Operation not permitted",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter unavailable, please retry later",
		"error.internal":                  "Internal server error",
		"error.jwt_secret_missing":        "Server signing key not configured",
		"error.auth_header_missing":       "Missing authorization header",
		"error.auth_header_invalid":       "Invalid authorization header",
		"error.token_invalid":             "Invalid token",
		"error.token_revoked":             "Token revoked, please sign in again",
		"error.order_not_found":           "Order not found",
		"error.order_fetch_failed":        "Failed to fetch order",
		"error.order_create_failed":       "Failed to create order",
		"error.order_update_failed":       "Failed to update order",
		"error.order_item_invalid":        "Invalid order item",
		"error.order_status_invalid":      "Operation not allowed in current order status",
		"error.tracking_not_allowed":      "Tracking number not allowed in current status",
		"error.delete_not_allowed":        "Only completed or cancelled orders can be deleted",
		"error.cancel_not_allowed":        "Cancellation not allowed in current status",
		"error.cancellation_pending":      "A cancellation request is already pending",
		"error.cancellation_decided":      "Cancellation request already decided",
		"error.cancellation_not_found":    "Cancellation request not found",
		"error.refund_not_allowed":        "Refund not allowed in current status",
		"error.refund_pending":            "A refund request is already pending",
		"error.refund_decided":            "Refund request already decided",
		"error.refund_not_found":          "Refund request not found",
		"error.refund_photo_required":     "Photo evidence is required for a refund request",
		"error.settlement_locked":         "Settlement is locked and cannot be modified",
		"error.settlement_not_found":      "Settlement record not found",
		"error.settlement_fetch_failed":   "Failed to fetch settlement",
		"error.settlement_save_failed":    "Failed to save settlement",
		"error.settlement_amount_invalid": "Invalid settlement amount",
		"error.user_id_invalid":           "Invalid user identity",
		"error.user_id_type_invalid":      "Invalid user identity type",
		"error.admin_id_invalid":          "Invalid admin identity",
		"error.admin_id_type_invalid":     "Invalid admin identity type",
		"error.invalid_credentials":       "Invalid username or password",
		"error.user_disabled":             "Account disabled",
		"error.email_taken":               "Email already registered",
		"error.weak_password":             "Password does not meet policy",
		"error.password_min_length":       "Password must be at least %d characters",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a digit",
		"error.password_require_special":  "Password must contain a special character",

		"order.status.pending":           "Pending payment",
		"order.status.processing":        "Processing",
		"order.status.shipped":           "Shipped",
		"order.status.delivered":         "Delivered",
		"order.status.completed":         "Completed",
		"order.status.cancelled":         "Cancelled",
		"order.status.in_refund_process": "Refund in process",

		"email.order_status.subject": "Order status update: %s",
		"email.order_status.body":    "Your order %s is now \"%s\".\n\nContact support if you have any questions.",
	},
}
