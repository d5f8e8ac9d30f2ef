package models

import (
	"time"

	"gorm.io/gorm"
)

// SettlementRecord 买家分组结算表（姓名+电话唯一）
type SettlementRecord struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                        // 主键
	BuyerName    string         `gorm:"uniqueIndex:idx_settlement_buyer;not null" json:"buyer_name"` // 买家姓名
	BuyerPhone   string         `gorm:"uniqueIndex:idx_settlement_buyer;not null" json:"buyer_phone"` // 买家电话
	ProductTotal Money          `gorm:"type:decimal(20,2);not null;default:0" json:"product_total"`  // 商品金额
	ShippingFee  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`   // 运费
	TotalPayable Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_payable"`  // 应付总额
	Locked       bool           `gorm:"not null;default:false" json:"locked"`                        // 单向锁定
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (SettlementRecord) TableName() string {
	return "settlement_records"
}
