package service

import (
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"gorm.io/gorm"
)

// CollectionService 商品集合服务
type CollectionService struct {
	repo        repository.CollectionRepository
	productRepo repository.ProductRepository
}

// NewCollectionService 创建集合服务
func NewCollectionService(repo repository.CollectionRepository, productRepo repository.ProductRepository) *CollectionService {
	return &CollectionService{repo: repo, productRepo: productRepo}
}

// CollectionInput 创建/更新集合输入
type CollectionInput struct {
	Title             string
	FeaturedProductID *uint
}

// List 获取集合列表（含商品数）
func (s *CollectionService) List(search string, page, pageSize int) ([]models.Collection, int64, error) {
	return s.repo.List(repository.CollectionListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
	})
}

// Get 获取集合详情
func (s *CollectionService) Get(id uint) (*models.Collection, error) {
	collection, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	return collection, nil
}

// Create 创建集合
func (s *CollectionService) Create(input CollectionInput) (*models.Collection, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	collection := models.Collection{
		Title:             input.Title,
		FeaturedProductID: input.FeaturedProductID,
	}
	if err := s.repo.Create(&collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// Update 更新集合
func (s *CollectionService) Update(id uint, input CollectionInput) (*models.Collection, error) {
	collection, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	collection.Title = input.Title
	collection.FeaturedProductID = input.FeaturedProductID
	if err := s.repo.Update(collection); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除集合，仍有商品时拒绝
func (s *CollectionService) Delete(id uint) error {
	collection, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if collection == nil {
		return ErrCollectionNotFound
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountProducts(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCollectionInUse
		}
		return repo.Delete(id)
	})
	// 检查之后并发写入的商品由外键约束兜底
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrCollectionInUse
	}
	return err
}

func (s *CollectionService) validate(input *CollectionInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return ErrCollectionTitleEmpty
	}
	if input.FeaturedProductID == nil || *input.FeaturedProductID == 0 {
		input.FeaturedProductID = nil
		return nil
	}
	product, err := s.productRepo.GetByID(*input.FeaturedProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrFeaturedProductInvalid
	}
	return nil
}
