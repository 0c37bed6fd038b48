package repository

import (
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 促销活动数据访问接口
type PromotionRepository interface {
	GetByID(id uint) (*models.Promotion, error)
	ExistingIDs(ids []uint) ([]uint, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	Delete(id uint) error
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建促销仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// GetByID 根据 ID 获取促销
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	return firstOrNil[models.Promotion](r.db, id)
}

// ExistingIDs 返回 ids 中实际存在的促销 ID
func (r *GormPromotionRepository) ExistingIDs(ids []uint) ([]uint, error) {
	existing := []uint{}
	if len(ids) == 0 {
		return existing, nil
	}
	if err := r.db.Model(&models.Promotion{}).Where("id IN ?", ids).Order("id asc").Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// Create 创建促销
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// Update 更新促销描述与折扣
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Model(promotion).Select("description", "discount").Updates(promotion).Error
}

// Delete 删除促销，同一事务内解除商品关联
func (r *GormPromotionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_promotions WHERE promotion_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Promotion{}, id).Error
	})
}

// List 促销列表
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	var total int64
	if err := r.db.Model(&models.Promotion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	promotions := []models.Promotion{}
	query := applyPagination(r.db.Model(&models.Promotion{}), filter.Page, filter.PageSize)
	if err := query.Order("id asc").Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}
