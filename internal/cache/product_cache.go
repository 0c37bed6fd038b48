package cache

import (
	"context"
	"fmt"
	"time"
)

func productDetailKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

// GetProductDetail 读取商品详情缓存
func GetProductDetail(ctx context.Context, productID uint, dest interface{}) (bool, error) {
	if productID == 0 {
		return false, nil
	}
	return GetJSON(ctx, productDetailKey(productID), dest)
}

// SetProductDetail 写入商品详情缓存
func SetProductDetail(ctx context.Context, productID uint, value interface{}, ttl time.Duration) error {
	if productID == 0 || ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, productDetailKey(productID), value, ttl)
}

// DelProductDetail 失效商品详情缓存
func DelProductDetail(ctx context.Context, productIDs ...uint) error {
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if id != 0 {
			keys = append(keys, productDetailKey(id))
		}
	}
	return Del(ctx, keys...)
}
