package service

import (
	"strings"

	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// PromotionService 促销活动服务
type PromotionService struct {
	repo repository.PromotionRepository
}

// NewPromotionService 创建促销服务
func NewPromotionService(repo repository.PromotionRepository) *PromotionService {
	return &PromotionService{repo: repo}
}

// PromotionInput 创建/更新促销输入
type PromotionInput struct {
	Description string
	Discount    float64
}

// List 促销列表
func (s *PromotionService) List(page, pageSize int) ([]models.Promotion, int64, error) {
	return s.repo.List(repository.PromotionListFilter{Page: page, PageSize: pageSize})
}

// Create 创建促销
func (s *PromotionService) Create(input PromotionInput) (*models.Promotion, error) {
	if err := validatePromotionInput(&input); err != nil {
		return nil, err
	}
	promotion := &models.Promotion{
		Description: input.Description,
		Discount:    input.Discount,
	}
	if err := s.repo.Create(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Update 更新促销
func (s *PromotionService) Update(id uint, input PromotionInput) (*models.Promotion, error) {
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	if err := validatePromotionInput(&input); err != nil {
		return nil, err
	}
	promotion.Description = input.Description
	promotion.Discount = input.Discount
	if err := s.repo.Update(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Delete 删除促销（同时解除商品关联）
func (s *PromotionService) Delete(id uint) error {
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if promotion == nil {
		return ErrPromotionNotFound
	}
	return s.repo.Delete(id)
}

func validatePromotionInput(input *PromotionInput) error {
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return ErrPromotionInvalid
	}
	if input.Discount < 0 || input.Discount > 1 {
		return ErrPromotionInvalid
	}
	return nil
}
