package public

import (
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/provider"
)

// Handler 店铺前台接口（商品目录、购物车、下单、账号）
type Handler struct {
	*provider.Container
	catalog config.CatalogConfig
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	h := &Handler{Container: c}
	if c != nil && c.Config != nil {
		h.catalog = c.Config.Catalog
	}
	return h
}
