package repository

import (
	"errors"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository 商品集合数据访问接口
type CollectionRepository interface {
	List(filter CollectionListFilter) ([]models.Collection, int64, error)
	GetByID(id uint) (*models.Collection, error)
	Create(collection *models.Collection) error
	Update(collection *models.Collection) error
	Delete(id uint) error
	CountProducts(collectionID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormCollectionRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormCollectionRepository GORM 实现
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository 创建集合仓库
func NewCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCollectionRepository) WithTx(tx *gorm.DB) *GormCollectionRepository {
	if tx == nil {
		return r
	}
	return &GormCollectionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCollectionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

const collectionProductsCountSelect = "collections.*, (SELECT COUNT(*) FROM products WHERE products.collection_id = collections.id) AS products_count"

// List 集合列表（附带商品数）
func (r *GormCollectionRepository) List(filter CollectionListFilter) ([]models.Collection, int64, error) {
	query := r.db.Model(&models.Collection{})
	query = whereLike(query, filter.Search, likeContains, "title")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var collections []models.Collection
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Select(collectionProductsCountSelect).Order("title asc, id asc").Find(&collections).Error; err != nil {
		return nil, 0, err
	}
	return collections, total, nil
}

// GetByID 根据 ID 获取集合（附带商品数）
func (r *GormCollectionRepository) GetByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.Select(collectionProductsCountSelect).Where("collections.id = ?", id).First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &collection, nil
}

// Create 创建集合
func (r *GormCollectionRepository) Create(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

// Update 更新集合
func (r *GormCollectionRepository) Update(collection *models.Collection) error {
	return r.db.Model(&models.Collection{}).Where("id = ?", collection.ID).Updates(map[string]interface{}{
		"title":               collection.Title,
		"featured_product_id": collection.FeaturedProductID,
		"updated_at":          collection.UpdatedAt,
	}).Error
}

// Delete 删除集合
func (r *GormCollectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Collection{}, id).Error
}

// CountProducts 统计集合下的商品数量
func (r *GormCollectionRepository) CountProducts(collectionID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("collection_id = ?", collectionID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
