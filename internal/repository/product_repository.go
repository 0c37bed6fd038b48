package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountOrderItems(productID uint) (int64, error)
	ReplacePromotions(product *models.Product, promotionIDs []uint) error
	AddImage(image *models.ProductImage) error
	GetImage(productID, imageID uint) (*models.ProductImage, error)
	DeleteImage(productID, imageID uint) error
	ClearInventory(ids []uint) (int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

var productOrderingColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"price":         "price",
	"collection_id": "collection_id",
	"last_update":   "last_update",
}

// resolveProductOrdering 解析排序参数，仅允许白名单字段，"-" 前缀表示倒序
func resolveProductOrdering(raw string) string {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	column, ok := productOrderingColumns[strings.TrimPrefix(raw, "-")]
	if !ok {
		return "title ASC, id ASC"
	}
	if desc {
		return column + " DESC, id DESC"
	}
	return column + " ASC, id ASC"
}

// applyInventoryLevelFilter 按库存等级过滤
func applyInventoryLevelFilter(query *gorm.DB, level string, low, high int) *gorm.DB {
	if query == nil {
		return query
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case constants.InventoryLevelLow:
		return query.Where("inventory < ?", low)
	case constants.InventoryLevelMedium:
		return query.Where("inventory >= ? AND inventory < ?", low, high)
	case constants.InventoryLevelHigh:
		return query.Where("inventory >= ?", high)
	default:
		return query
	}
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.CollectionID != 0 {
		query = query.Where("collection_id = ?", filter.CollectionID)
	}
	query = whereLike(query, filter.Search, likeContains, "title", "description")
	query = applyInventoryLevelFilter(query, filter.InventoryLevel, filter.LowStock, filter.HighStock)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Images").Order(resolveProductOrdering(filter.Ordering)).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).Preload("Promotions").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIDs 批量获取商品
func (r *GormProductRepository) GetByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Omit("Promotions", "Images").Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Promotions", "Images", "Collection").Save(product).Error
}

// Delete 删除商品及其附属数据（评价、图片、购物车项、促销关联）
func (r *GormProductRepository) Delete(id uint) error {
	if err := r.db.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM product_promotions WHERE product_id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.Model(&models.Collection{}).Where("featured_product_id = ?", id).Update("featured_product_id", nil).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Product{}, id).Error
}

// CountOrderItems 统计引用商品的订单项数量
func (r *GormProductRepository) CountOrderItems(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplacePromotions 覆盖商品促销关联
func (r *GormProductRepository) ReplacePromotions(product *models.Product, promotionIDs []uint) error {
	if product == nil {
		return nil
	}
	promotions := make([]models.Promotion, 0, len(promotionIDs))
	if len(promotionIDs) > 0 {
		if err := r.db.Where("id IN ?", promotionIDs).Find(&promotions).Error; err != nil {
			return err
		}
	}
	return r.db.Model(product).Association("Promotions").Replace(promotions)
}

// AddImage 添加商品图片
func (r *GormProductRepository) AddImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// GetImage 获取商品图片
func (r *GormProductRepository) GetImage(productID, imageID uint) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.Where("id = ? AND product_id = ?", imageID, productID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// DeleteImage 删除商品图片
func (r *GormProductRepository) DeleteImage(productID, imageID uint) error {
	return r.db.Where("id = ? AND product_id = ?", imageID, productID).Delete(&models.ProductImage{}).Error
}

// ClearInventory 批量清空库存，返回更新数量
func (r *GormProductRepository) ClearInventory(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).Where("id IN ?", ids).Updates(map[string]interface{}{
		"inventory":   0,
		"last_update": time.Now(),
	})
	return result.RowsAffected, result.Error
}
