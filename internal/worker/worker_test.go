package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/metrics"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.MigrateAll(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m := metrics.New()
	c := &provider.Container{
		Config:       &config.Config{},
		Metrics:      m,
		CartRepo:     repository.NewCartRepository(db),
		OrderRepo:    repository.NewOrderRepository(db),
		CustomerRepo: repository.NewCustomerRepository(db),
		ProductRepo:  repository.NewProductRepository(db),
	}
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.CustomerRepo, nil, m.Store, 0)
	return NewConsumer(c), db
}

func seedOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	t.Helper()
	user := &models.User{Email: "buyer@example.com", PasswordHash: "x", Status: constants.UserStatusActive}
	require.NoError(t, db.Create(user).Error)
	customer := &models.Customer{UserID: user.ID, Membership: constants.MembershipBasic}
	require.NoError(t, db.Create(customer).Error)
	order := &models.Order{CustomerID: customer.ID, PaymentStatus: status}
	require.NoError(t, db.Create(order).Error)
	return order
}

func paymentTimeoutTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(queue.OrderPaymentTimeoutPayload{OrderID: orderID})
	require.NoError(t, err)
	return asynq.NewTask(queue.TaskOrderPaymentTimeout, body)
}

func TestHandleOrderPaymentTimeoutExpiresPending(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	order := seedOrder(t, db, constants.OrderStatusPending)

	require.NoError(t, consumer.handleOrderPaymentTimeout(context.Background(), paymentTimeoutTask(t, order.ID)))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, constants.OrderStatusFailed, reloaded.PaymentStatus)
}

func TestHandleOrderPaymentTimeoutKeepsCompleted(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	order := seedOrder(t, db, constants.OrderStatusCompleted)

	require.NoError(t, consumer.handleOrderPaymentTimeout(context.Background(), paymentTimeoutTask(t, order.ID)))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, constants.OrderStatusCompleted, reloaded.PaymentStatus)
}

func TestHandleOrderPaymentTimeoutBadPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)
	err := consumer.handleOrderPaymentTimeout(context.Background(), asynq.NewTask(queue.TaskOrderPaymentTimeout, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = consumer.handleOrderPaymentTimeout(context.Background(), paymentTimeoutTask(t, 0))
	assert.ErrorIs(t, err, queue.ErrInvalidPayload)
}

func seedCartWithItem(t *testing.T, db *gorm.DB, productID uint, createdAt, touchedAt time.Time) *models.Cart {
	t.Helper()
	cart := &models.Cart{}
	require.NoError(t, db.Create(cart).Error)
	require.NoError(t, db.Model(cart).UpdateColumn("created_at", createdAt).Error)
	item := &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}
	require.NoError(t, db.Create(item).Error)
	require.NoError(t, db.Model(item).UpdateColumn("updated_at", touchedAt).Error)
	return cart
}

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	collection := &models.Collection{Title: "Bakery"}
	require.NoError(t, db.Create(collection).Error)
	product := &models.Product{Title: "Bread", Slug: "bread", Price: models.MustMoney("10.00"), Inventory: 5, CollectionID: collection.ID}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestPurgeStaleCarts(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	svc, err := NewService(&config.Config{Cart: config.CartConfig{StaleAfterHours: 24}}, consumer)
	require.NoError(t, err)
	assert.Nil(t, svc.server)

	product := seedProduct(t, db)
	now := time.Now()
	abandoned := seedCartWithItem(t, db, product.ID, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	// 创建较早但明细近期仍有更新的购物车视为活跃
	inUse := seedCartWithItem(t, db, product.ID, now.Add(-72*time.Hour), now.Add(-time.Hour))
	fresh := &models.Cart{}
	require.NoError(t, db.Create(fresh).Error)

	purged := svc.purgeStaleCarts(now)
	assert.Equal(t, int64(1), purged)

	var remaining []string
	require.NoError(t, db.Model(&models.Cart{}).Order("id").Pluck("id", &remaining).Error)
	assert.ElementsMatch(t, []string{inUse.ID, fresh.ID}, remaining)
	assert.NotContains(t, remaining, abandoned.ID)

	var orphans int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", abandoned.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
	assert.Equal(t, 1.0, gatheredCounter(t, consumer, "storefront_carts_purged_total"))
}

func TestPurgeDisabledByDefault(t *testing.T) {
	consumer, db := setupWorkerTest(t)
	svc, err := NewService(&config.Config{}, consumer)
	require.NoError(t, err)
	assert.Zero(t, svc.staleAfter)

	product := seedProduct(t, db)
	old := time.Now().Add(-90 * 24 * time.Hour)
	cart := seedCartWithItem(t, db, product.ID, old, old)

	assert.Zero(t, svc.purgeStaleCarts(time.Now()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Start(ctx))

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveCartDefaults(t *testing.T) {
	assert.Equal(t, time.Hour, resolvePurgeInterval(config.CartConfig{}))
	assert.Equal(t, 15*time.Minute, resolvePurgeInterval(config.CartConfig{PurgeIntervalMinutes: 15}))
	assert.Zero(t, resolveStaleAfter(config.CartConfig{}))
	assert.Zero(t, resolveStaleAfter(config.CartConfig{StaleAfterHours: -1}))
	assert.Equal(t, 2*time.Hour, resolveStaleAfter(config.CartConfig{StaleAfterHours: 2}))
}

func gatheredCounter(t *testing.T, consumer *Consumer, name string) float64 {
	t.Helper()
	families, err := consumer.Metrics.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		total := 0.0
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	return 0
}
