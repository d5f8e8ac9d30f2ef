package models

import (
	"time"

	"gorm.io/gorm"
)

// RefundRequest 退款申请表
type RefundRequest struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`   // 订单ID
	Reason      string         `gorm:"type:varchar(500)" json:"reason"`  // 退款原因
	PhotoURL    string         `gorm:"not null" json:"photo_url"`        // 凭证照片（必填）
	VideoURL    string         `json:"video_url,omitempty"`              // 凭证视频（选填）
	Decision    *string        `gorm:"index" json:"decision,omitempty"`  // 审批结果（空为待审批）
	DecidedAt   *time.Time     `json:"decided_at,omitempty"`             // 审批时间
	RequestedAt time.Time      `gorm:"index;not null" json:"requested_at"` // 申请时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间
}

// TableName 指定表名
func (RefundRequest) TableName() string {
	return "refund_requests"
}

// Pending 是否待审批
func (r *RefundRequest) Pending() bool {
	return r.Decision == nil
}
