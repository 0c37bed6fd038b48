package repository

import (
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/models"
)

func TestCartRepositoryItemsLifecycle(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	collection := createTestCollection(t, db, "Beverages")
	product := createTestProduct(t, db, collection.ID, "Coffee", "10.00", 5)

	cart := &models.Cart{}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if len(cart.ID) != 36 {
		t.Fatalf("cart id should be uuid, got %q", cart.ID)
	}

	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	if err := repo.CreateItem(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}); err == nil {
		t.Fatalf("duplicate cart product should violate unique index")
	}

	existing, err := repo.GetItemByProduct(cart.ID, product.ID)
	if err != nil || existing == nil {
		t.Fatalf("get item by product failed: %v", err)
	}
	if err := repo.UpdateItemQuantity(existing.ID, 7); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}

	loaded, err := repo.GetWithItems(cart.ID)
	if err != nil {
		t.Fatalf("get with items failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 7 {
		t.Fatalf("unexpected items: %+v", loaded.Items)
	}
	if loaded.Items[0].Product == nil || loaded.Items[0].Product.Title != "Coffee" {
		t.Fatalf("product should be preloaded")
	}

	other := &models.Cart{}
	if err := repo.Create(other); err != nil {
		t.Fatalf("create other cart failed: %v", err)
	}
	if got, err := repo.GetItem(other.ID, existing.ID); err != nil || got != nil {
		t.Fatalf("item must be scoped to its cart, got %+v err %v", got, err)
	}
	if affected, err := repo.DeleteItem(other.ID, existing.ID); err != nil || affected != 0 {
		t.Fatalf("delete from other cart should affect nothing, got %d err %v", affected, err)
	}

	if err := repo.Delete(cart.ID); err != nil {
		t.Fatalf("delete cart failed: %v", err)
	}
	if got, _ := repo.GetByID(cart.ID); got != nil {
		t.Fatalf("cart should be deleted")
	}
	var count int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	if count != 0 {
		t.Fatalf("cart items should be deleted, got %d", count)
	}
}

func TestCartRepositoryDeleteInactiveSince(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	collection := createTestCollection(t, db, "Snacks")
	product := createTestProduct(t, db, collection.ID, "Chips", "2.50", 10)

	stale := &models.Cart{CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &models.Cart{}
	if err := repo.Create(stale); err != nil {
		t.Fatalf("create stale cart failed: %v", err)
	}
	if err := repo.Create(fresh); err != nil {
		t.Fatalf("create fresh cart failed: %v", err)
	}
	if err := repo.CreateItem(&models.CartItem{CartID: stale.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("create stale item failed: %v", err)
	}
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", stale.ID).
		UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error; err != nil {
		t.Fatalf("backdate stale item failed: %v", err)
	}
	active := &models.Cart{CreatedAt: time.Now().Add(-48 * time.Hour)}
	if err := repo.Create(active); err != nil {
		t.Fatalf("create active cart failed: %v", err)
	}
	if err := repo.CreateItem(&models.CartItem{CartID: active.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("create active item failed: %v", err)
	}

	deleted, err := repo.DeleteInactiveSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("want 1 purged cart, got %d", deleted)
	}
	if got, _ := repo.GetByID(fresh.ID); got == nil {
		t.Fatalf("fresh cart should survive")
	}
	if got, _ := repo.GetByID(active.ID); got == nil {
		t.Fatalf("cart with recent item activity should survive")
	}
	var count int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", stale.ID).Count(&count)
	if count != 0 {
		t.Fatalf("stale items should be purged, got %d", count)
	}
}
