package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID           uint           `gorm:"index;not null" json:"user_id"`                             // 买家账号ID
	BuyerName        string         `gorm:"index;not null" json:"buyer_name"`                          // 买家姓名快照（下单时固化）
	BuyerPhone       string         `gorm:"index;not null" json:"buyer_phone"`                         // 买家电话快照
	BuyerAddress     string         `gorm:"not null" json:"buyer_address"`                             // 收货地址快照
	Status           string         `gorm:"index;not null" json:"status"`                              // 规范状态
	TrackingNo       string         `gorm:"type:varchar(64)" json:"tracking_no,omitempty"`             // 物流单号
	ProductTotal     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"product_total"` // 商品金额
	ShippingFee      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"` // 运费
	ServerTotal      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"server_total"` // 服务端结算金额
	SettlementLocked bool           `gorm:"not null;default:false" json:"settlement_locked"`           // 结算锁定
	Version          uint           `gorm:"not null;default:0" json:"-"`                               // 乐观锁版本号
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`           // 订单项
	Cancellations  []Cancellation  `gorm:"foreignKey:OrderID" json:"cancellations,omitempty"`   // 取消申请
	RefundRequests []RefundRequest `gorm:"foreignKey:OrderID" json:"refund_requests,omitempty"` // 退款申请
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
