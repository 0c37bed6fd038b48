package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	cfg        *config.Config
	auth       *AuthService
	customers  *CustomerService
	collection *CollectionService
	products   *ProductService
	promotions *PromotionService
	reviews    *ReviewService
	carts      *CartService
	orders     *OrderService
	reports    *ReportService
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.MigrateAll(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := setupServiceTestDB(t)

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "service-test-secret"
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8, RequireLetter: true, RequireNumber: true}
	cfg.Catalog = config.CatalogConfig{LowStockThreshold: 10, HighStockThreshold: 90}

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	productRepo := repository.NewProductRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	customers := NewCustomerService(customerRepo)
	return &testServices{
		db:         db,
		cfg:        cfg,
		auth:       NewAuthService(cfg, userRepo, customerRepo, customers),
		customers:  customers,
		collection: NewCollectionService(collectionRepo, productRepo),
		products:   NewProductService(productRepo, collectionRepo, promotionRepo, 0),
		promotions: NewPromotionService(promotionRepo),
		reviews:    NewReviewService(repository.NewReviewRepository(db), productRepo),
		carts:      NewCartService(cartRepo, productRepo),
		orders:     NewOrderService(orderRepo, cartRepo, customerRepo, nil, nil, 0),
		reports:    NewReportService(repository.NewReportRepository(db), cfg.Catalog),
	}
}

func (s *testServices) createCollection(t *testing.T, title string) *models.Collection {
	t.Helper()
	collection := &models.Collection{Title: title}
	require.NoError(t, s.db.Create(collection).Error)
	return collection
}

func (s *testServices) createProduct(t *testing.T, collectionID uint, title, price string, inventory int) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:        title,
		Slug:         strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Price:        models.MustMoney(price),
		Inventory:    inventory,
		CollectionID: collectionID,
	}
	require.NoError(t, s.db.Create(product).Error)
	return product
}

func (s *testServices) createCustomer(t *testing.T, email string, isStaff bool) (*models.User, *models.Customer) {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		IsStaff:      isStaff,
		Status:       constants.UserStatusActive,
	}
	require.NoError(t, s.db.Create(user).Error)
	customer, err := s.customers.CreateForUser(nil, user.ID)
	require.NoError(t, err)
	return user, customer
}

// fillCart 创建购物车并按 productID -> quantity 加入商品
func (s *testServices) fillCart(t *testing.T, lines map[uint]int) string {
	t.Helper()
	cart, err := s.carts.Create()
	require.NoError(t, err)
	for productID, quantity := range lines {
		_, err := s.carts.AddItem(cart.ID, productID, quantity)
		require.NoError(t, err)
	}
	return cart.ID
}
