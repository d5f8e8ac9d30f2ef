package models

import (
	"time"

	"gorm.io/gorm"
)

// Cancellation 订单取消申请表
type Cancellation struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	OrderID   uint           `gorm:"index;not null" json:"order_id"`         // 订单ID
	Initiator string         `gorm:"index;not null" json:"initiator"`        // 发起方（buyer/seller）
	Reason    string         `gorm:"type:varchar(500)" json:"reason"`        // 取消原因
	Decision  *string        `gorm:"index" json:"decision,omitempty"`        // 审批结果（空为待审批）
	DecidedAt *time.Time     `json:"decided_at,omitempty"`                   // 审批时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Cancellation) TableName() string {
	return "cancellations"
}

// Pending 是否待审批
func (c *Cancellation) Pending() bool {
	return c.Decision == nil
}
