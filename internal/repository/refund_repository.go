package repository

import (
	"errors"
	"time"

	"github.com/homemart-shop/internal/models"

	"gorm.io/gorm"
)

// RefundRepository 退款申请数据访问接口
type RefundRepository interface {
	Create(req *models.RefundRequest) error
	GetByID(id uint) (*models.RefundRequest, error)
	ListByOrder(orderID uint) ([]models.RefundRequest, error)
	List(filter DecisionListFilter) ([]models.RefundRequest, int64, error)
	HasPendingRequest(orderID uint) (bool, error)
	Decide(id uint, decision string, decidedAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormRefundRepository
}

// GormRefundRepository GORM 实现
type GormRefundRepository struct {
	db *gorm.DB
}

// NewRefundRepository 创建退款申请仓库
func NewRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRefundRepository) WithTx(tx *gorm.DB) *GormRefundRepository {
	if tx == nil {
		return r
	}
	return &GormRefundRepository{db: tx}
}

// Create 创建退款申请
func (r *GormRefundRepository) Create(req *models.RefundRequest) error {
	return r.db.Create(req).Error
}

// GetByID 根据 ID 获取退款申请
func (r *GormRefundRepository) GetByID(id uint) (*models.RefundRequest, error) {
	var req models.RefundRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// ListByOrder 获取订单的退款申请历史（按申请时间升序）
func (r *GormRefundRepository) ListByOrder(orderID uint) ([]models.RefundRequest, error) {
	var rows []models.RefundRequest
	if err := r.db.Where("order_id = ?", orderID).
		Order("requested_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List 管理端退款申请列表
func (r *GormRefundRepository) List(filter DecisionListFilter) ([]models.RefundRequest, int64, error) {
	query := r.db.Model(&models.RefundRequest{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.PendingOnly {
		query = query.Where("decision IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.RefundRequest
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// HasPendingRequest 订单是否存在待审批的退款申请
func (r *GormRefundRepository) HasPendingRequest(orderID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.RefundRequest{}).
		Where("order_id = ? AND decision IS NULL", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Decide 一次性审批：仅当仍未审批时写入，返回受影响行数
func (r *GormRefundRepository) Decide(id uint, decision string, decidedAt time.Time) (int64, error) {
	res := r.db.Model(&models.RefundRequest{}).
		Where("id = ? AND decision IS NULL", id).
		Updates(map[string]interface{}{
			"decision":   decision,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}
