package service

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{repo: repo, productRepo: productRepo}
}

// ReviewInput 评价输入
type ReviewInput struct {
	Name        string
	Description string
}

// List 商品评价列表
func (s *ReviewService) List(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.requireProduct(productID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	})
}

// Get 获取评价
func (s *ReviewService) Get(productID, reviewID uint) (*models.Review, error) {
	if err := s.requireProduct(productID); err != nil {
		return nil, err
	}
	review, err := s.repo.GetByID(productID, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// Create 创建评价（匿名可用）
func (s *ReviewService) Create(productID uint, input ReviewInput) (*models.Review, error) {
	if err := validateReviewInput(&input); err != nil {
		return nil, err
	}
	if err := s.requireProduct(productID); err != nil {
		return nil, err
	}
	review := &models.Review{
		ProductID:   productID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.repo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update 更新评价
func (s *ReviewService) Update(productID, reviewID uint, input ReviewInput) (*models.Review, error) {
	review, err := s.Get(productID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := validateReviewInput(&input); err != nil {
		return nil, err
	}
	review.Name = input.Name
	review.Description = input.Description
	if err := s.repo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除评价
func (s *ReviewService) Delete(productID, reviewID uint) error {
	if _, err := s.Get(productID, reviewID); err != nil {
		return err
	}
	return s.repo.Delete(productID, reviewID)
}

func (s *ReviewService) requireProduct(productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return nil
}

func validateReviewInput(input *ReviewInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" || input.Description == "" {
		return ErrReviewInvalid
	}
	return nil
}
