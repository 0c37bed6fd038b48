package service

import (
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

const birthDateLayout = "2006-01-02"

// CustomerService 顾客档案服务
type CustomerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService 创建顾客服务
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// CustomerProfileInput 顾客资料更新输入，nil 字段保持不变
type CustomerProfileInput struct {
	Phone      *string
	BirthDate  *string // YYYY-MM-DD，空字符串表示清空
	Membership *string // 仅员工接口生效
}

// CustomerListInput 顾客列表查询输入
type CustomerListInput struct {
	Page       int
	PageSize   int
	Search     string
	Membership string
}

// CreateForUser 为用户创建顾客档案（已存在时直接返回）
func (s *CustomerService) CreateForUser(repo repository.CustomerRepository, userID uint) (*models.Customer, error) {
	if repo == nil {
		repo = s.repo
	}
	existing, err := repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	customer := &models.Customer{
		UserID:     userID,
		Membership: constants.MembershipBasic,
	}
	if err := repo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByUser 获取当前用户的顾客档案
func (s *CustomerService) GetByUser(userID uint) (*models.Customer, error) {
	customer, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// UpdateProfile 用户更新自己的资料（不可修改会员等级）
func (s *CustomerService) UpdateProfile(userID uint, input CustomerProfileInput) (*models.Customer, error) {
	customer, err := s.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	input.Membership = nil
	return s.apply(customer, input)
}

// List 员工查看顾客列表
func (s *CustomerService) List(input CustomerListInput) ([]models.Customer, int64, error) {
	membership := strings.TrimSpace(input.Membership)
	if membership != "" {
		normalized, ok := normalizeMembership(membership)
		if !ok {
			return nil, 0, ErrMembershipInvalid
		}
		membership = normalized
	}
	return s.repo.List(repository.CustomerListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		Search:     input.Search,
		Membership: membership,
	})
}

// Get 员工获取顾客详情
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// Update 员工更新顾客资料
func (s *CustomerService) Update(id uint, input CustomerProfileInput) (*models.Customer, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.apply(customer, input)
}

// UpdateMembership 员工修改会员等级
func (s *CustomerService) UpdateMembership(id uint, membership string, operatorID uint) (*models.Customer, error) {
	normalized, ok := normalizeMembership(membership)
	if !ok {
		return nil, ErrMembershipInvalid
	}
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMembership(customer.ID, normalized); err != nil {
		return nil, err
	}
	logger.Infow("customer_membership_updated",
		"customer_id", customer.ID,
		"from", customer.Membership,
		"to", normalized,
		"operator_user_id", operatorID,
	)
	return s.Get(id)
}

func (s *CustomerService) apply(customer *models.Customer, input CustomerProfileInput) (*models.Customer, error) {
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.BirthDate != nil {
		birthDate, err := parseBirthDate(*input.BirthDate)
		if err != nil {
			return nil, err
		}
		customer.BirthDate = birthDate
	}
	if input.Membership != nil {
		normalized, ok := normalizeMembership(*input.Membership)
		if !ok {
			return nil, ErrMembershipInvalid
		}
		customer.Membership = normalized
	}
	customer.UpdatedAt = time.Now()
	if err := s.repo.Update(customer); err != nil {
		return nil, err
	}
	return s.Get(customer.ID)
}

func parseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return nil, ErrBirthDateInvalid
	}
	if parsed.After(time.Now()) {
		return nil, ErrBirthDateInvalid
	}
	return &parsed, nil
}

// normalizeMembership 归一化会员等级，大小写不敏感
func normalizeMembership(raw string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case strings.ToUpper(constants.MembershipBasic):
		return constants.MembershipBasic, true
	case strings.ToUpper(constants.MembershipPremium):
		return constants.MembershipPremium, true
	default:
		return "", false
	}
}
