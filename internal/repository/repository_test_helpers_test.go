package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func createTestCollection(t *testing.T, db *gorm.DB, title string) *models.Collection {
	t.Helper()
	collection := &models.Collection{Title: title}
	if err := db.Create(collection).Error; err != nil {
		t.Fatalf("create collection failed: %v", err)
	}
	return collection
}

func createTestProduct(t *testing.T, db *gorm.DB, collectionID uint, title, price string, inventory int) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:        title,
		Slug:         strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Price:        models.MustMoney(price),
		Inventory:    inventory,
		CollectionID: collectionID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestCustomer(t *testing.T, db *gorm.DB, email, firstName, lastName string) *models.Customer {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    firstName,
		LastName:     lastName,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	customer := &models.Customer{UserID: user.ID, Membership: constants.MembershipBasic}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func createTestOrder(t *testing.T, db *gorm.DB, customerID uint, status string, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{CustomerID: customerID, PaymentStatus: status}
	if err := NewOrderRepository(db).Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
