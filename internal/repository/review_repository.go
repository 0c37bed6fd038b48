package repository

import (
	"errors"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	GetByID(productID, reviewID uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(productID, reviewID uint) error
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// List 按商品列出评价
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("product_id = ?", filter.ProductID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("date desc, id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetByID 获取商品下的评价
func (r *GormReviewRepository) GetByID(productID, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("id = ? AND product_id = ?", reviewID, productID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Update 更新评价
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Model(&models.Review{}).Where("id = ?", review.ID).Updates(map[string]interface{}{
		"name":        review.Name,
		"description": review.Description,
	}).Error
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(productID, reviewID uint) error {
	return r.db.Where("id = ? AND product_id = ?", reviewID, productID).Delete(&models.Review{}).Error
}
