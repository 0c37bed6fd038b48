package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository 顾客数据访问接口
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByUserID(userID uint) (*models.Customer, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	UpdateMembership(id uint, membership string) error
	List(filter CustomerListFilter) ([]models.Customer, int64, error)
	WithTx(tx *gorm.DB) *GormCustomerRepository
}

// GormCustomerRepository GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓库
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

func (r *GormCustomerRepository) withProfile(query *gorm.DB) *gorm.DB {
	return query.Preload("User").Preload("Addresses", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
}

// GetByID 根据 ID 获取顾客
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.withProfile(r.db).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByUserID 根据用户 ID 获取顾客
func (r *GormCustomerRepository) GetByUserID(userID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.withProfile(r.db).Where("user_id = ?", userID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Create 创建顾客
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Omit("User", "Addresses").Create(customer).Error
}

// Update 更新顾客资料
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(map[string]interface{}{
		"phone":      customer.Phone,
		"birth_date": customer.BirthDate,
		"membership": customer.Membership,
		"updated_at": customer.UpdatedAt,
	}).Error
}

// UpdateMembership 更新会员等级
func (r *GormCustomerRepository) UpdateMembership(id uint, membership string) error {
	return r.db.Model(&models.Customer{}).Where("id = ?", id).Update("membership", membership).Error
}

// List 顾客列表，按姓名排序，支持姓名前缀搜索
func (r *GormCustomerRepository) List(filter CustomerListFilter) ([]models.Customer, int64, error) {
	query := r.db.Model(&models.Customer{}).Joins("JOIN users ON users.id = customers.user_id AND users.deleted_at IS NULL")
	query = whereLike(query, filter.Search, likePrefix, "users.first_name", "users.last_name")
	if membership := strings.TrimSpace(filter.Membership); membership != "" {
		query = query.Where("customers.membership = ?", membership)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("User").Order("users.first_name asc, users.last_name asc, customers.id asc").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
