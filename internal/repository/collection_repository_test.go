package repository

import (
	"testing"
)

func TestCollectionRepositoryProductsCount(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCollectionRepository(db)
	empty := createTestCollection(t, db, "Accessories")
	full := createTestCollection(t, db, "Books")
	createTestProduct(t, db, full.ID, "Go Book", "30.00", 3)
	createTestProduct(t, db, full.ID, "SQL Book", "25.00", 7)

	collections, total, err := repo.List(CollectionListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list collections failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("want 2 collections got %d", total)
	}
	counts := map[uint]int64{}
	for _, item := range collections {
		counts[item.ID] = item.ProductsCount
	}
	if counts[empty.ID] != 0 || counts[full.ID] != 2 {
		t.Fatalf("unexpected products_count: %+v", counts)
	}

	loaded, err := repo.GetByID(full.ID)
	if err != nil || loaded == nil {
		t.Fatalf("get collection failed: %v", err)
	}
	if loaded.ProductsCount != 2 || loaded.Title != "Books" {
		t.Fatalf("unexpected collection: %+v", loaded)
	}

	count, err := repo.CountProducts(full.ID)
	if err != nil || count != 2 {
		t.Fatalf("count products want 2 got %d err %v", count, err)
	}
	if got, _ := repo.GetByID(9999); got != nil {
		t.Fatalf("missing collection should return nil")
	}
}

func TestCollectionRepositoryDeleteProtectedByProducts(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCollectionRepository(db)
	collection := createTestCollection(t, db, "Protected")
	createTestProduct(t, db, collection.ID, "Lamp", "12.00", 1)

	if err := repo.Delete(collection.ID); err == nil {
		t.Fatalf("store should refuse deleting a referenced collection")
	}
	if got, _ := repo.GetByID(collection.ID); got == nil {
		t.Fatalf("collection should remain")
	}
}
