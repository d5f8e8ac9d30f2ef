package repository

import (
	"errors"
	"time"

	"github.com/homemart-shop/internal/constants"
	"github.com/homemart-shop/internal/models"

	"gorm.io/gorm"
)

// CancellationRepository 取消申请数据访问接口
type CancellationRepository interface {
	Create(c *models.Cancellation) error
	GetByID(id uint) (*models.Cancellation, error)
	ListByOrder(orderID uint) ([]models.Cancellation, error)
	List(filter DecisionListFilter) ([]models.Cancellation, int64, error)
	HasPendingBuyerRequest(orderID uint) (bool, error)
	Decide(id uint, decision string, decidedAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormCancellationRepository
}

// GormCancellationRepository GORM 实现
type GormCancellationRepository struct {
	db *gorm.DB
}

// NewCancellationRepository 创建取消申请仓库
func NewCancellationRepository(db *gorm.DB) *GormCancellationRepository {
	return &GormCancellationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCancellationRepository) WithTx(tx *gorm.DB) *GormCancellationRepository {
	if tx == nil {
		return r
	}
	return &GormCancellationRepository{db: tx}
}

// Create 创建取消申请
func (r *GormCancellationRepository) Create(c *models.Cancellation) error {
	return r.db.Create(c).Error
}

// GetByID 根据 ID 获取取消申请
func (r *GormCancellationRepository) GetByID(id uint) (*models.Cancellation, error) {
	var c models.Cancellation
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListByOrder 获取订单的取消申请历史
func (r *GormCancellationRepository) ListByOrder(orderID uint) ([]models.Cancellation, error) {
	var rows []models.Cancellation
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List 管理端取消申请列表
func (r *GormCancellationRepository) List(filter DecisionListFilter) ([]models.Cancellation, int64, error) {
	query := r.db.Model(&models.Cancellation{})

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

	var rows []models.Cancellation
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// HasPendingBuyerRequest 订单是否存在待审批的买家取消申请
func (r *GormCancellationRepository) HasPendingBuyerRequest(orderID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Cancellation{}).
		Where("order_id = ? AND initiator = ? AND decision IS NULL", orderID, constants.CancelInitiatorBuyer).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Decide 一次性审批：仅当仍未审批时写入，返回受影响行数
func (r *GormCancellationRepository) Decide(id uint, decision string, decidedAt time.Time) (int64, error) {
	res := r.db.Model(&models.Cancellation{}).
		Where("id = ? AND decision IS NULL", id).
		Updates(map[string]interface{}{
			"decision":   decision,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}
