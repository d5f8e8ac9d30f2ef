package repository

import (
	"errors"

	"github.com/homemart-shop/internal/models"

	"gorm.io/gorm"
)

// SettlementRepository 结算记录数据访问接口
type SettlementRepository interface {
	GetByBuyer(buyerName, buyerPhone string) (*models.SettlementRecord, error)
	Create(record *models.SettlementRecord) error
	UpdateUnlocked(id uint, updates map[string]interface{}) (int64, error)
	List(page, pageSize int) ([]models.SettlementRecord, int64, error)
	WithTx(tx *gorm.DB) *GormSettlementRepository
}

// GormSettlementRepository GORM 实现
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository 创建结算记录仓库
func NewSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSettlementRepository) WithTx(tx *gorm.DB) *GormSettlementRepository {
	if tx == nil {
		return r
	}
	return &GormSettlementRepository{db: tx}
}

// GetByBuyer 根据买家分组获取结算记录
func (r *GormSettlementRepository) GetByBuyer(buyerName, buyerPhone string) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	if err := r.db.Where("buyer_name = ? AND buyer_phone = ?", buyerName, buyerPhone).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create 创建结算记录
func (r *GormSettlementRepository) Create(record *models.SettlementRecord) error {
	return r.db.Create(record).Error
}

// UpdateUnlocked 仅当未锁定时更新，返回受影响行数
func (r *GormSettlementRepository) UpdateUnlocked(id uint, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.SettlementRecord{}).
		Where("id = ? AND locked = ?", id, false).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// List 管理端结算记录列表
func (r *GormSettlementRepository) List(page, pageSize int) ([]models.SettlementRecord, int64, error) {
	query := r.db.Model(&models.SettlementRecord{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var rows []models.SettlementRecord
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
