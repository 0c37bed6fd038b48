package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	productPriceMin = decimal.NewFromInt(1)
	productPriceMax = decimal.RequireFromString("9999.99")
)

// ProductService 商品业务服务
type ProductService struct {
	repo           repository.ProductRepository
	collectionRepo repository.CollectionRepository
	promotionRepo  repository.PromotionRepository
	cacheTTL       time.Duration
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, collectionRepo repository.CollectionRepository, promotionRepo repository.PromotionRepository, cacheTTL time.Duration) *ProductService {
	return &ProductService{
		repo:           repo,
		collectionRepo: collectionRepo,
		promotionRepo:  promotionRepo,
		cacheTTL:       cacheTTL,
	}
}

// ProductInput 创建/整体更新商品输入
type ProductInput struct {
	Title        string
	Slug         string
	Description  string
	Price        decimal.Decimal
	Inventory    int
	CollectionID uint
	PromotionIDs []uint
}

// ProductPatch 商品部分更新，nil 字段保持不变
type ProductPatch struct {
	Title        *string
	Slug         *string
	Description  *string
	Price        *decimal.Decimal
	Inventory    *int
	CollectionID *uint
	PromotionIDs *[]uint
}

// ProductListInput 商品列表查询输入
type ProductListInput struct {
	Page           int
	PageSize       int
	CollectionID   uint
	Search         string
	Ordering       string
	InventoryLevel string
	LowStock       int
	HighStock      int
}

// List 商品列表
func (s *ProductService) List(input ProductListInput) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:           input.Page,
		PageSize:       input.PageSize,
		CollectionID:   input.CollectionID,
		Search:         input.Search,
		Ordering:       input.Ordering,
		InventoryLevel: input.InventoryLevel,
		LowStock:       input.LowStock,
		HighStock:      input.HighStock,
	})
}

// Get 获取商品详情（优先读缓存）
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var cached models.Product
	hit, err := cache.GetProductDetail(ctx, id, &cached)
	if err != nil {
		logger.Warnw("product_cache_get_failed", "product_id", id, "error", err)
	}
	if hit {
		return &cached, nil
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := cache.SetProductDetail(ctx, id, product, s.cacheTTL); err != nil {
		logger.Warnw("product_cache_set_failed", "product_id", id, "error", err)
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	product := models.Product{
		Title:        input.Title,
		Slug:         input.Slug,
		Description:  input.Description,
		Price:        models.NewMoneyFromDecimal(input.Price),
		Inventory:    input.Inventory,
		CollectionID: input.CollectionID,
	}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(&product); err != nil {
			return err
		}
		if len(input.PromotionIDs) > 0 {
			return repo.ReplacePromotions(&product, input.PromotionIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, product.ID)
}

// Update 整体更新商品
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	return s.save(ctx, product, input, true)
}

// Patch 部分更新商品
func (s *ProductService) Patch(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	input := ProductInput{
		Title:        product.Title,
		Slug:         product.Slug,
		Description:  product.Description,
		Price:        product.Price.Decimal,
		Inventory:    product.Inventory,
		CollectionID: product.CollectionID,
	}
	if patch.Title != nil {
		input.Title = *patch.Title
		if patch.Slug == nil {
			input.Slug = ""
		}
	}
	if patch.Slug != nil {
		input.Slug = *patch.Slug
	}
	if patch.Description != nil {
		input.Description = *patch.Description
	}
	if patch.Price != nil {
		input.Price = *patch.Price
	}
	if patch.Inventory != nil {
		input.Inventory = *patch.Inventory
	}
	if patch.CollectionID != nil {
		input.CollectionID = *patch.CollectionID
	}
	if patch.PromotionIDs != nil {
		input.PromotionIDs = *patch.PromotionIDs
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	return s.save(ctx, product, input, patch.PromotionIDs != nil)
}

func (s *ProductService) save(ctx context.Context, product *models.Product, input ProductInput, replacePromotions bool) (*models.Product, error) {
	product.Title = input.Title
	product.Slug = input.Slug
	product.Description = input.Description
	product.Price = models.NewMoneyFromDecimal(input.Price)
	product.Inventory = input.Inventory
	product.CollectionID = input.CollectionID

	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(product); err != nil {
			return err
		}
		if replacePromotions {
			return repo.ReplacePromotions(product, input.PromotionIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)
	return s.reload(ctx, product.ID)
}

// Delete 删除商品，存在订单项引用时拒绝
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountOrderItems(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrProductInUse
		}
		return repo.Delete(id)
	})
	if err != nil {
		// 检查之后并发写入的订单项由外键约束兜底
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProductInUse
		}
		return err
	}
	s.invalidate(ctx, id)
	logger.Infow("product_deleted", "product_id", id)
	return nil
}

// SetPromotions 覆盖商品促销
func (s *ProductService) SetPromotions(ctx context.Context, id uint, promotionIDs []uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	ids, err := s.checkPromotions(promotionIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplacePromotions(product, ids); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.reload(ctx, id)
}

// AddImage 添加商品图片
func (s *ProductService) AddImage(ctx context.Context, productID uint, image string) (*models.ProductImage, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, ErrProductImageInvalid
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	record := &models.ProductImage{ProductID: productID, Image: image}
	if err := s.repo.AddImage(record); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productID)
	return record, nil
}

// DeleteImage 删除商品图片
func (s *ProductService) DeleteImage(ctx context.Context, productID, imageID uint) error {
	image, err := s.repo.GetImage(productID, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrProductImageNotFound
	}
	if err := s.repo.DeleteImage(productID, imageID); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

// ClearInventory 批量清空库存，返回更新数量
func (s *ProductService) ClearInventory(ctx context.Context, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	updated, err := s.repo.ClearInventory(ids)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, ids...)
	logger.Infow("inventory_cleared", "product_ids", ids, "updated", updated)
	return updated, nil
}

func (s *ProductService) reload(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context, ids ...uint) {
	if err := cache.DelProductDetail(ctx, ids...); err != nil {
		logger.Warnw("product_cache_invalidate_failed", "product_ids", ids, "error", err)
	}
}

func (s *ProductService) validate(input *ProductInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return ErrProductTitleRequired
	}
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = slugify(input.Title)
	}
	input.Description = strings.TrimSpace(input.Description)

	input.Price = input.Price.Round(2)
	if input.Price.LessThan(productPriceMin) || input.Price.GreaterThan(productPriceMax) {
		return ErrProductPriceInvalid
	}
	if input.Inventory < 0 {
		return ErrProductInventoryNeg
	}

	collection, err := s.collectionRepo.GetByID(input.CollectionID)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}

	ids, err := s.checkPromotions(input.PromotionIDs)
	if err != nil {
		return err
	}
	input.PromotionIDs = ids
	return nil
}

func (s *ProductService) checkPromotions(promotionIDs []uint) ([]uint, error) {
	ids := uniqueIDs(promotionIDs)
	if len(ids) == 0 {
		return ids, nil
	}
	existing, err := s.promotionRepo.ExistingIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(ids) {
		return nil, ErrPromotionNotFound
	}
	return ids, nil
}

// slugify 由标题生成 slug：小写字母数字，其余字符折叠为单个连字符
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func uniqueIDs(ids []uint) []uint {
	result := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
