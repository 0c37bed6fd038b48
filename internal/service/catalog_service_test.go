package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateValidation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	collection := s.createCollection(t, "Pantry")

	tests := []struct {
		name  string
		input ProductInput
		want  error
	}{
		{"empty title", ProductInput{Title: " ", Price: decimal.NewFromInt(5), CollectionID: collection.ID}, ErrProductTitleRequired},
		{"price below minimum", ProductInput{Title: "Salt", Price: decimal.RequireFromString("0.99"), CollectionID: collection.ID}, ErrProductPriceInvalid},
		{"price above maximum", ProductInput{Title: "Salt", Price: decimal.RequireFromString("10000"), CollectionID: collection.ID}, ErrProductPriceInvalid},
		{"negative inventory", ProductInput{Title: "Salt", Price: decimal.NewFromInt(5), Inventory: -1, CollectionID: collection.ID}, ErrProductInventoryNeg},
		{"unknown collection", ProductInput{Title: "Salt", Price: decimal.NewFromInt(5), CollectionID: 999}, ErrCollectionNotFound},
		{"unknown promotion", ProductInput{Title: "Salt", Price: decimal.NewFromInt(5), CollectionID: collection.ID, PromotionIDs: []uint{42}}, ErrPromotionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.products.Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	promotion, err := s.promotions.Create(PromotionInput{Description: "Summer", Discount: 0.2})
	require.NoError(t, err)

	product, err := s.products.Create(ctx, ProductInput{
		Title:        "  Sea Salt Flakes ",
		Price:        decimal.RequireFromString("4.999"),
		Inventory:    12,
		CollectionID: collection.ID,
		PromotionIDs: []uint{promotion.ID, promotion.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sea Salt Flakes", product.Title)
	assert.Equal(t, "sea-salt-flakes", product.Slug)
	assert.Equal(t, "5.00", product.Price.String())
	assert.Len(t, product.Promotions, 1)
}

func TestProductPatchAndImages(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	collection := s.createCollection(t, "Pantry")
	product := s.createProduct(t, collection.ID, "Honey", "9.90", 5)

	inventory := 30
	title := "Wildflower Honey"
	patched, err := s.products.Patch(ctx, product.ID, ProductPatch{Title: &title, Inventory: &inventory})
	require.NoError(t, err)
	assert.Equal(t, "Wildflower Honey", patched.Title)
	assert.Equal(t, 30, patched.Inventory)
	assert.Equal(t, "9.90", patched.Price.String())

	_, err = s.products.AddImage(ctx, product.ID, " ")
	assert.ErrorIs(t, err, ErrProductImageInvalid)

	image, err := s.products.AddImage(ctx, product.ID, "https://cdn.example.com/honey.jpg")
	require.NoError(t, err)

	loaded, err := s.products.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Images, 1)

	require.NoError(t, s.products.DeleteImage(ctx, product.ID, image.ID))
	assert.ErrorIs(t, s.products.DeleteImage(ctx, product.ID, image.ID), ErrProductImageNotFound)

	_, err = s.products.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductDeleteProtectedByOrderItems(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	collection := s.createCollection(t, "Bakery")
	bread := s.createProduct(t, collection.ID, "Bread", "10.00", 20)
	scone := s.createProduct(t, collection.ID, "Scone", "3.00", 20)
	alice, _ := s.createCustomer(t, "alice@example.com", false)

	_, err := s.orders.PlaceOrderForUser(alice.ID, s.fillCart(t, map[uint]int{bread.ID: 1}))
	require.NoError(t, err)

	err = s.products.Delete(ctx, bread.ID)
	assert.ErrorIs(t, err, ErrProductInUse)
	assert.Equal(t, ErrorKindConflict, ErrorKind(err))
	_, err = s.products.Get(ctx, bread.ID)
	assert.NoError(t, err)

	_, err = s.reviews.Create(scone.ID, ReviewInput{Name: "Dana", Description: "Flaky."})
	require.NoError(t, err)
	cartID := s.fillCart(t, map[uint]int{scone.ID: 2})

	require.NoError(t, s.products.Delete(ctx, scone.ID))
	var reviews int64
	require.NoError(t, s.db.Model(&models.Review{}).Where("product_id = ?", scone.ID).Count(&reviews).Error)
	assert.Zero(t, reviews)

	detail, err := s.carts.Get(cartID)
	require.NoError(t, err)
	assert.Empty(t, detail.Items)
}

// 触发器在删除语句执行时写入引用行，模拟检查之后才落库的并发写入
func TestDeleteReportsConflictForLateReferences(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	collection := s.createCollection(t, "Bakery")
	bread := s.createProduct(t, collection.ID, "Bread", "10.00", 20)
	scone := s.createProduct(t, collection.ID, "Scone", "3.00", 20)
	alice, _ := s.createCustomer(t, "alice@example.com", false)

	order, err := s.orders.PlaceOrderForUser(alice.ID, s.fillCart(t, map[uint]int{scone.ID: 1}))
	require.NoError(t, err)
	require.NoError(t, s.db.Exec(fmt.Sprintf(`CREATE TRIGGER late_order_item BEFORE DELETE ON products
BEGIN
	INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (%d, OLD.id, 1, 10);
END`, order.ID)).Error)

	err = s.products.Delete(ctx, bread.ID)
	assert.ErrorIs(t, err, ErrProductInUse)
	assert.Equal(t, ErrorKindConflict, ErrorKind(err))
	_, err = s.products.Get(ctx, bread.ID)
	assert.NoError(t, err)
	require.NoError(t, s.db.Exec("DROP TRIGGER late_order_item").Error)

	empty := s.createCollection(t, "Pantry")
	require.NoError(t, s.db.Exec(`CREATE TRIGGER late_product BEFORE DELETE ON collections
BEGIN
	INSERT INTO products (title, slug, description, price, inventory, collection_id) VALUES ('Jam', 'jam', '', 4, 1, OLD.id);
END`).Error)

	err = s.collection.Delete(empty.ID)
	assert.ErrorIs(t, err, ErrCollectionInUse)
	_, err = s.collection.Get(empty.ID)
	assert.NoError(t, err)
}

func TestCollectionLifecycle(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.collection.Create(CollectionInput{Title: "  "})
	assert.ErrorIs(t, err, ErrCollectionTitleEmpty)

	missing := uint(404)
	_, err = s.collection.Create(CollectionInput{Title: "Bakery", FeaturedProductID: &missing})
	assert.ErrorIs(t, err, ErrFeaturedProductInvalid)

	collection, err := s.collection.Create(CollectionInput{Title: "Bakery"})
	require.NoError(t, err)
	product := s.createProduct(t, collection.ID, "Bread", "10.00", 20)

	updated, err := s.collection.Update(collection.ID, CollectionInput{Title: "Bakery", FeaturedProductID: &product.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.FeaturedProductID)
	assert.Equal(t, product.ID, *updated.FeaturedProductID)

	list, total, err := s.collection.List("", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), list[0].ProductsCount)

	err = s.collection.Delete(collection.ID)
	assert.ErrorIs(t, err, ErrCollectionInUse)

	require.NoError(t, s.products.Delete(ctx, product.ID))
	reloaded, err := s.collection.Get(collection.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FeaturedProductID)

	require.NoError(t, s.collection.Delete(collection.ID))
	_, err = s.collection.Get(collection.ID)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestPromotionValidation(t *testing.T) {
	s := newTestServices(t)

	_, err := s.promotions.Create(PromotionInput{Description: "", Discount: 0.1})
	assert.ErrorIs(t, err, ErrPromotionInvalid)
	_, err = s.promotions.Create(PromotionInput{Description: "Too much", Discount: 1.5})
	assert.ErrorIs(t, err, ErrPromotionInvalid)

	promotion, err := s.promotions.Create(PromotionInput{Description: "Launch", Discount: 0.25})
	require.NoError(t, err)

	updated, err := s.promotions.Update(promotion.ID, PromotionInput{Description: "Launch week", Discount: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "Launch week", updated.Description)

	require.NoError(t, s.promotions.Delete(promotion.ID))
	assert.ErrorIs(t, s.promotions.Delete(promotion.ID), ErrPromotionNotFound)
}

func TestReviewsScopedToProduct(t *testing.T) {
	s := newTestServices(t)
	collection := s.createCollection(t, "Bakery")
	bread := s.createProduct(t, collection.ID, "Bread", "10.00", 20)
	butter := s.createProduct(t, collection.ID, "Butter", "5.00", 20)

	_, err := s.reviews.Create(bread.ID, ReviewInput{Name: "", Description: "x"})
	assert.ErrorIs(t, err, ErrReviewInvalid)
	_, err = s.reviews.Create(999, ReviewInput{Name: "Eve", Description: "Great"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	review, err := s.reviews.Create(bread.ID, ReviewInput{Name: "Eve", Description: "Great crust"})
	require.NoError(t, err)

	_, err = s.reviews.Get(butter.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	list, total, err := s.reviews.List(bread.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Great crust", list[0].Description)
}

func TestInventoryStatusLabels(t *testing.T) {
	s := newTestServices(t)
	assert.Equal(t, constants.InventoryStatusOutOfStock, s.reports.InventoryStatus(0))
	assert.Equal(t, constants.InventoryStatusRunningLow, s.reports.InventoryStatus(10))
	assert.Equal(t, constants.InventoryStatusAdequate, s.reports.InventoryStatus(50))
	assert.Equal(t, constants.InventoryStatusInStock, s.reports.InventoryStatus(91))
}
